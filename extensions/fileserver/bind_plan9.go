package fileserver

import "syscall"

// Plan 9 has no errno values; the kernel reports a taken port with this text.
var errAddressInUse error = syscall.ErrorString("address in use")
