package report

import (
	"encoding/hex"
	"os"

	"github.com/go-faster/jx"

	"multirom/alloc"
	"multirom/build"
	"multirom/extract"
	"multirom/menu"
)

// BuildManifest describes a build and the files it wrote as JSON.
func BuildManifest(c *build.Context, files []build.File) []byte {
	var e jx.Encoder
	e.SetIdent(2)
	e.Obj(func(e *jx.Encoder) {
		e.Field("code", func(e *jx.Encoder) { e.Str(c.Code) })
		e.Field("built", func(e *jx.Encoder) { e.Str(c.Built.Format(menu.TimeLayout)) })
		e.Field("layout", func(e *jx.Encoder) { e.Str(c.Template.Layout.Template) })
		e.Field("image_size", func(e *jx.Encoder) { e.Int(len(c.Image)) })
		e.Field("used", func(e *jx.Encoder) { e.Int(c.Space.Used()) })

		e.Field("entries", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for i := range c.Entries {
					encodeEntry(e, &c.Entries[i])
				}
			})
		})
		e.Field("unlisted", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, p := range c.Unlisted {
					e.Obj(func(e *jx.Encoder) {
						e.Field("title", func(e *jx.Encoder) { e.Str(p.Module.Title) })
						e.Field("path", func(e *jx.Encoder) { e.Str(p.Module.Path) })
						e.Field("offset", func(e *jx.Encoder) { e.UInt32(p.Offset) })
					})
				}
			})
		})
		e.Field("rejected", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, r := range c.Result.Rejected {
					e.Obj(func(e *jx.Encoder) {
						e.Field("title", func(e *jx.Encoder) { e.Str(r.Module.Title) })
						e.Field("path", func(e *jx.Encoder) { e.Str(r.Module.Path) })
						e.Field("size", func(e *jx.Encoder) { e.UInt32(uint32(r.Module.Size)) })
						e.Field("reason", func(e *jx.Encoder) { e.Str(r.Reason.String()) })
					})
				}
			})
		})
		e.Field("files", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, f := range files {
					e.Obj(func(e *jx.Encoder) {
						e.Field("path", func(e *jx.Encoder) { e.Str(f.Path) })
						e.Field("kind", func(e *jx.Encoder) { e.Str(f.Kind) })
						e.Field("size", func(e *jx.Encoder) { e.Int(f.Size) })
						if f.Part > 0 {
							e.Field("part", func(e *jx.Encoder) { e.Int(f.Part) })
						}
					})
				}
			})
		})
	})
	return e.Bytes()
}

func encodeEntry(e *jx.Encoder, ent *build.Entry) {
	m := ent.Module
	e.Obj(func(e *jx.Encoder) {
		e.Field("slot", func(e *jx.Encoder) { e.Int(ent.Slot + 1) })
		e.Field("index", func(e *jx.Encoder) { e.Int(m.Index) })
		e.Field("title", func(e *jx.Encoder) { e.Str(m.Title) })
		if m.Subtitle != "" {
			e.Field("subtitle", func(e *jx.Encoder) { e.Str(m.Subtitle) })
		}
		e.Field("path", func(e *jx.Encoder) { e.Str(m.Path) })
		e.Field("offset", func(e *jx.Encoder) { e.UInt32(ent.Offset) })
		e.Field("size", func(e *jx.Encoder) { e.UInt32(uint32(m.Size)) })
		e.Field("mapper", func(e *jx.Encoder) { e.Str(m.Mapper) })
		e.Field("params", func(e *jx.Encoder) { e.Str(ent.Param.String()) })
		encodeBank(e, ent.Bank)
		e.Field("save_size", func(e *jx.Encoder) { e.Int(m.SaveSize) })
		e.Field("sha1", func(e *jx.Encoder) { e.Str(hex.EncodeToString(m.Hash[:])) })
	})
}

func encodeBank(e *jx.Encoder, bank int) {
	e.Field("bank", func(e *jx.Encoder) {
		if bank == alloc.NoBank {
			e.Null()
			return
		}
		e.Int(bank)
	})
}

// ExportManifest describes an opened compilation and the files exported or
// imported as JSON.
func ExportManifest(c *extract.Compilation, files []extract.File) []byte {
	var e jx.Encoder
	e.SetIdent(2)
	e.Obj(func(e *jx.Encoder) {
		e.Field("path", func(e *jx.Encoder) { e.Str(c.Path) })
		e.Field("version", func(e *jx.Encoder) { e.Int(int(c.Info.Version)) })
		e.Field("code", func(e *jx.Encoder) { e.Str(c.Info.Code) })
		e.Field("built", func(e *jx.Encoder) { e.Str(c.Info.Built) })
		e.Field("entries", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for i := range c.Entries {
					ent := &c.Entries[i]
					e.Obj(func(e *jx.Encoder) {
						e.Field("slot", func(e *jx.Encoder) { e.Int(ent.Slot + 1) })
						e.Field("title", func(e *jx.Encoder) { e.Str(ent.Title) })
						e.Field("offset", func(e *jx.Encoder) { e.UInt32(ent.Offset) })
						e.Field("size", func(e *jx.Encoder) { e.UInt32(ent.Size) })
						e.Field("mapper", func(e *jx.Encoder) { e.Str(ent.Header.Mapper()) })
						e.Field("params", func(e *jx.Encoder) { e.Str(ent.Param.String()) })
						encodeBank(e, ent.Bank)
						e.Field("save_size", func(e *jx.Encoder) { e.Int(ent.SaveSize) })
					})
				}
			})
		})
		e.Field("skipped", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, err := range c.Skipped {
					e.Str(err.Error())
				}
			})
		})
		e.Field("files", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, f := range files {
					e.Obj(func(e *jx.Encoder) {
						e.Field("path", func(e *jx.Encoder) { e.Str(f.Path) })
						e.Field("kind", func(e *jx.Encoder) { e.Str(f.Kind) })
						e.Field("size", func(e *jx.Encoder) { e.Int(f.Size) })
					})
				}
			})
		})
	})
	return e.Bytes()
}

// WriteManifest writes a manifest to path.
func WriteManifest(path string, data []byte) error {
	return os.WriteFile(path, append(data, '\n'), 0644)
}
