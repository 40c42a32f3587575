//go:build !aix && !darwin && !dragonfly && !freebsd && !linux && !netbsd && !openbsd && !solaris && !windows && !plan9

package fileserver

import "syscall"

var errAddressInUse error = syscall.EADDRINUSE
