package gpu

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gogpu/naga"
)

// Embedded blit shader source.
//
//go:embed shaders/blit.wgsl
var blitShaderSource string

// GetBlitShaderSource returns the WGSL source for the blit shader.
func GetBlitShaderSource() string {
	return blitShaderSource
}

// compileBlitShaderSPIRV cross-compiles the blit shader to SPIR-V words.
// Used to validate the WGSL at pipeline init before handing the source to
// the backend, and by backends that consume SPIR-V directly.
func compileBlitShaderSPIRV() ([]uint32, error) {
	if blitShaderSource == "" {
		return nil, errors.New("gpu: blit shader source is empty")
	}
	spirvBytes, err := naga.Compile(blitShaderSource)
	if err != nil {
		return nil, fmt.Errorf("compile blit shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	return words, nil
}
