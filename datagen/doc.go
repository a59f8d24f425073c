// Package datagen produces supplemental TPC-H style INSERT scripts.
//
// The generators extend an existing seed dataset: customers, suppliers,
// parts, orders, part-supplier links, and line items with realistic
// value distributions. Output is plain SQL suitable for db.ExecuteScript.
//
//	gen := datagen.New(42)
//	script := gen.Script(datagen.DefaultConfig())
package datagen
