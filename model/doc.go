// Package model defines stable boundary types for API layers and the
// in-process Service that drives the codecs.
//
// Carrier formats are unaffected by any projection. These structs are the
// only types intended for direct JSON/CBOR serialization by consumers.
package model
