// Package process starts helper programs that must outlive the build, such
// as the viewer opened on the compiled help file.
package process
