// Package hrdb reads and writes HRIR databases in the HRDB container.
//
// An HRDB file is little-endian and chunked:
//
//	header  "HRDB" version:u16 count:u32 sampleRate:f64 irLength:u32 indexOffset:u64
//	entry   "ENTR" size:u64 { sub-chunk }
//	          "POS-" size:u32 azimuth:f64 elevation:f64 radius:f64
//	          "AUDI" size:u32 left:f32[irLength] right:f32[irLength]
//	index   "INDX" size:u64 { offset:u64 azimuth:f64 elevation:f64 }
//
// Entries are stored in repository order. Unknown sub-chunks inside an
// entry are skipped, so later versions can add metadata without breaking
// older readers.
package hrdb
