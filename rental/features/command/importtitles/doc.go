// Package importtitles adds a tenant's titles to the catalog from a CSV upload.
//
// Columns are Title,Author,Category,Price,Publisher. A first line that mentions "title" is a header.
// Missing columns get defaults; a title the tenant already has gains one copy instead of a duplicate entry.
package importtitles
