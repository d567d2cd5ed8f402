/*
Package fvsim provides a combinational four-valued logic simulation core.

It evaluates a netlist of wires and combinational components using a
data-parallel, fixed-point scheduler: a component pass computes outputs
from current wire states, a wire pass combines driver outputs (and
external drives) back into wire states, and the two alternate until a
pass produces no change. The logic itself is bit-packed four-valued
(Logic-0, Logic-1, High-Z, Undefined), encoded as pairs of 32-bit words
so that up to 32 bits evaluate per operation.

The package is structured so that the two passes could be dispatched on
a data-parallel accelerator: buffers are flat slices addressed by index,
there is exactly one writer per output slot, and cross-work-item
ordering is only required between dispatches. The reference Dispatcher
in this package runs both passes over a goroutine pool instead, but the
buffer layout and kernels do not assume that.

Sequential (memory-bearing) components such as flip-flops, registers and
RAM are out of scope; the reserved memory buffer exists in the layout
but no kernel reads or writes it.
*/
package fvsim
