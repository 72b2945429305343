package assets

import (
	"strings"

	"github.com/mitchellh/go-homedir"
)

// ModelDir returns the directory part of a model path: everything before
// the last '/', "." when there is no '/', and "/" when the only '/' is
// the first character.
func ModelDir(path string) string {
	i := strings.LastIndexByte(path, '/')
	switch {
	case i < 0:
		return "."
	case i == 0:
		return "/"
	default:
		return path[:i]
	}
}

// TexturePath resolves a texture name written in a material against the
// directory of the model that references it. Backslashes from Windows
// exporters are treated as separators.
func TexturePath(modelPath, name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	if strings.HasPrefix(name, "/") {
		return name
	}
	dir := ModelDir(modelPath)
	if dir == "/" {
		return "/" + name
	}
	return dir + "/" + name
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return expanded
}
