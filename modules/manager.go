package modules

import "os"

// fileExists reports whether path exists on the local filesystem. It does
// not distinguish files from directories: search paths are directories,
// resolved module names are files, and both are checked the same way.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// PathExists is fileExists exported for use as the pathExists callback to
// NewManager from outside the package (e.g. the CLI), keeping the
// filesystem dependency explicit at the call site per the source's
// Path::exists usage in modules::manager::get_module_paths.
func PathExists(path string) bool {
	return fileExists(path)
}
