package assets

import "errors"

// Sentinel errors for asset lookups.
var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetName = errors.New("invalid asset name") // separators, dots or NUL in a name
	ErrInvalidBasePath  = errors.New("invalid base path")  // asset directory missing or not a directory
	ErrAssetRead        = errors.New("failed to read asset")
	ErrPathTraversal    = errors.New("path traversal detected") // a link leads outside the asset directory
)
