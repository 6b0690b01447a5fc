// Package assets provides the header template and the print stylesheet
// used when augmenting and printing idiom pages.
//
// Assets are addressed by bare name and kind:
//
//	styles/{name}.css      print
//	templates/{name}.html  header
//
// EmbeddedLoader serves the copies compiled into the binary.
// FilesystemLoader serves a directory with the same layout, reading through
// an os.Root so that symlinks cannot leave it. AssetResolver stacks a
// FilesystemLoader over the embedded copies, so a deployment can override
// the header alone.
package assets
