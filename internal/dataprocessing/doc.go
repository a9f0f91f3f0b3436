// Package dataprocessing loads samples, output records and evaluation sets
// from files.
//
// # Formats
//
// Samples and records are read from JSON (one object or an array of
// objects), JSON Lines, CSV and XLSX. Evaluation sets are read from JSON,
// YAML and CSV.
//
//	samples, err := dataprocessing.LoadSamples("samples.csv")
//	if err != nil {
//	    return err
//	}
//
// # Tabular cells
//
// CSV and XLSX cells are typed by their literal: an empty cell is null,
// true/false is a bool, an integer literal is an int and a decimal literal
// is a float. List fields such as contributing_signal_types are split on
// ListSeparator. XLSX cells are read by their stored value, not the text
// their number format displays.
//
// JSON numbers keep their literal form as well, so 2500000 decodes as an
// int and 2500000.5 as a float.
package dataprocessing
