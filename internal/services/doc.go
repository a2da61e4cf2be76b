// Package services holds the error taxonomy and context annotation shared
// by the service-layer packages beneath it.
package services
