// Package inputs classifies raw command-line arguments into batch items and
// expands folders and URL-list files into concrete media inputs.
//
// Classification is purely syntactic plus a filesystem existence check and
// never fails: every argument lands in exactly one of four kinds. Existing
// paths win over URL-looking strings, so a local file named like a URL is
// still treated as a file.
package inputs
