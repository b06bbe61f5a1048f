// Package normalisers provides text extraction for the supported
// upload formats. Each format lives in its own subpackage; the
// registry routes a file to its normaliser by extension.
package normalisers
