// Package internal contains the infrastructure shared by navcore packages,
// chiefly the process logger.
// Types and functions in this package are not part of the public API.
package internal
