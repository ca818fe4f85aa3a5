//go:build arm64

package distance

import "golang.org/x/sys/cpu"

func init() {
	hasFastKernels = cpu.ARM64.HasASIMD
	selectKernels()
}
