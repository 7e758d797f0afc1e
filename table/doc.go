// Package table writes matrices and data frames as delimited text, the way
// write.table does.
//
// A matrix is written row by row from its column-major data. A data frame is
// written from its columns; factor columns are written as their level labels.
// Missing values are written as the NA string and never quoted.
//
//	err := table.Write(w, df, table.WithSep(","), table.WithQMethod(table.QMethodDouble))
package table
