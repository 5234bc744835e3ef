package pict

import "errors"

// Every error returned by this module wraps exactly one of these, so
// errors.Is can be used to find out what went wrong.
var (
	// ErrHeader means a header or signature is malformed or describes
	// something unsupported.
	ErrHeader = errors.New("pict: unsupported header")
	// ErrPalette means a required palette is missing or uses an
	// unsupported depth or colour count.
	ErrPalette = errors.New("pict: invalid palette")
	// ErrImage means the pixel data is missing or shorter than the
	// geometry requires.
	ErrImage = errors.New("pict: invalid image data")
	// ErrMemory means a buffer could not be allocated.
	ErrMemory = errors.New("pict: allocation failed")
	// ErrConvert means a conversion could not be applied.
	ErrConvert = errors.New("pict: conversion failed")
	// ErrOutput means serialization or writing failed.
	ErrOutput = errors.New("pict: output failed")
	// ErrOpen means the input could not be opened.
	ErrOpen = errors.New("pict: cannot open input")
)
