// Package sanitizer cleans untrusted markup with bluemonday policies.
package sanitizer
