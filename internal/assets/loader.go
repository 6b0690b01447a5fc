package assets

import "path/filepath"

// Built-in asset names.
const (
	HeaderTemplateName = "header"
	PrintStyleName     = "print"
)

// AssetLoader loads stylesheets and HTML templates by bare name
// ("print", not "print.css"). Unknown names return ErrStyleNotFound or
// ErrTemplateNotFound; unsafe names return ErrInvalidAssetName.
type AssetLoader interface {
	LoadStyle(name string) (string, error)
	LoadTemplate(name string) (string, error)
}

// kind describes where one family of assets lives.
type kind struct {
	dir      string
	ext      string
	notFound error
}

var (
	styleKind    = kind{dir: "styles", ext: ".css", notFound: ErrStyleNotFound}
	templateKind = kind{dir: "templates", ext: ".html", notFound: ErrTemplateNotFound}
)

// slashPath is the path of name inside an embed.FS.
func (k kind) slashPath(name string) string {
	return k.dir + "/" + name + k.ext
}

// osPath is the path of name relative to an asset directory.
func (k kind) osPath(name string) string {
	return filepath.Join(k.dir, name+k.ext)
}
