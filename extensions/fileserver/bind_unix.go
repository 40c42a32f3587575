//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

package fileserver

import "golang.org/x/sys/unix"

var errAddressInUse error = unix.EADDRINUSE
