// Package style defines the attribute set that pages intern per cell.
//
// A Style is a small, pointer-free, comparable value. Pages never store a
// Style in a cell; they store an ID that refers to an interned copy in the
// page's style table, so a screen full of identically styled text keeps a
// single copy of the attributes.
package style
