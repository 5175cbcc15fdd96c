// Package localdir implements a paper source over a local directory.
//
// Files with .pdf, .txt or .md extensions are served as papers whose
// id is the root-relative path, so re-ingesting the same directory
// overwrites rather than duplicates. Hidden files and directories are
// skipped. Watch mode follows the tree with fsnotify and emits a
// paper once a new or modified file has stopped changing; deletions
// are not mirrored into the index.
package localdir
