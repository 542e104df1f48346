// Package handlers implements HTTP handlers for the go2hand API.
package handlers
