package bind_group_provider

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label added for convenience.
	label string

	// bindGroup is the GPU bind group, or nil until the backend creates it.
	bindGroup *wgpu.BindGroup
	// buffers holds the uniform buffers referenced by the bind group, keyed by binding index.
	buffers map[int]*wgpu.Buffer
}

// BindGroupProvider holds the bind group a pipeline reads its uniforms from, together with the
// buffers behind it. The WGPU backend creates one per shading pipeline:
//  1. the backend creates the uniform buffer and the bind group over it
//  2. both are handed to NewBindGroupProvider with WithBuffer and WithBindGroup
//  3. each draw stages the frame uniforms with Write and binds BindGroup()
//  4. Release frees everything when the pipeline is released
type BindGroupProvider interface {
	// Release releases the bind group and every buffer. Safe to call more than once.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BindGroup returns the bind group for shader binding.
	// Returns nil if GPU resources have not been initialized.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group or nil
	BindGroup() *wgpu.BindGroup

	// Buffer returns the buffer for a binding, or nil if none was set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// Write stages data into the buffer of a binding.
	//
	// Parameters:
	//   - w: the write to perform
	//
	// Returns:
	//   - error: error if the binding has no buffer or the queue write fails
	Write(w BufferWrite) error
}

var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a provider that owns the resources passed as options.
//
// Parameters:
//   - label: the debug label
//   - options: functional options
//
// Returns:
//   - BindGroupProvider: the new provider
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:   label,
		buffers: make(map[int]*wgpu.Buffer),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) Write(w BufferWrite) error {
	buf := p.buffers[w.Binding]
	if buf == nil {
		return fmt.Errorf("%s: no buffer at binding %d", p.label, w.Binding)
	}
	if w.Queue == nil {
		return fmt.Errorf("%s: no queue for write to binding %d", p.label, w.Binding)
	}
	return w.Queue.WriteBuffer(buf, w.Offset, w.Data)
}

func (p *bindGroupProvider) Release() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}
}

// BufferWrite describes a single queue write targeting a binding at a byte offset.
type BufferWrite struct {
	Queue   *wgpu.Queue
	Binding int
	Offset  uint64
	Data    []byte
}
