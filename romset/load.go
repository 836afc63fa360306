package romset

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"multirom/gbrom"
	"multirom/log"
)

// Load reads all the files of dir, in name order, and returns the ones that
// are Game Boy images as modules. Files that aren't are silently skipped.
func Load(ctx context.Context, dir string, opts Options) ([]*Module, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.*"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	// Reads are done in parallel, modules are built in order afterwards.
	bufs := make([][]byte, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fi, err := os.Stat(path)
			if err != nil {
				return err
			}
			if !fi.Mode().IsRegular() || fi.Size() > int64(MaxSize) {
				return nil
			}
			buf, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			bufs[i] = buf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var mods []*Module
	for i, path := range paths {
		if bufs[i] == nil {
			continue
		}
		if !gbrom.HasLogo(bufs[i]) {
			log.ModLoad.DebugZ("skipping file").String("path", path).End()
			continue
		}

		m, err := NewModule(len(mods), path, bufs[i], opts)
		if errors.Is(err, gbrom.ErrTruncated) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if err := m.loadCompanions(); err != nil {
			return nil, err
		}

		log.ModLoad.DebugZ("found module").
			Int("index", m.Index).
			String("title", m.Title).
			Stringer("size", m.Size).
			Int("save", m.SaveSize).
			End()
		mods = append(mods, m)
	}
	return mods, nil
}

// loadCompanions picks up the optional .sav and .png files sharing the
// module's file name.
func (m *Module) loadCompanions() error {
	stem := strings.TrimSuffix(m.Path, filepath.Ext(m.Path))

	if m.HasSave() {
		buf, err := os.ReadFile(stem + ".sav")
		switch {
		case err == nil:
			m.SetSave(buf)
		case !errors.Is(err, fs.ErrNotExist):
			return err
		}
	}

	png := stem + ".png"
	if fi, err := os.Stat(png); err == nil && fi.Mode().IsRegular() {
		m.Strip = png
	}
	return nil
}
