// Package dmg assembles the distributable disk image: the application bundle
// is copied into a staging directory next to an /Applications symlink, then
// compressed into a read-only image. The staging directory is a scoped
// temporary resource and is removed on every path, success or failure.
package dmg
