// Package buildinfo exposes build-time version information injected
// via ldflags:
//
//	go build -ldflags "-X github.com/bdc-labs/securestore-go/internal/infra/buildinfo.Version=v1.0.0"
package buildinfo
