// Package sanitizer provides input normalization functions for client data.
//
// All normalization functions are idempotent - applying them multiple times
// produces the same result. Functions handle invalid input gracefully,
// typically by returning empty strings rather than errors.
//
// Normalization includes:
//   - Phone numbers: Convert to E.164 format (+[country][number]), French
//     numbers first
//   - Strings: Collapse whitespace, trim leading/trailing spaces
package sanitizer
