/*
Package vm implements a RISC-V hart capable of booting a small operating system.

A [Hart] owns a register file and a set of special-purpose registers, a [Bus]
that dispatches physical addresses either to RAM or to memory-mapped devices,
and a fetch/decode/execute/trap driver loop. The hart implements the RV64 base
integer ISA plus the subsets of the M and A extensions used by an xv6-style
kernel, Sv39 supervisor-mode paging, and three privilege levels.

# Hart #

The hart has:

  - 32 general-purpose registers, x0 hardwired to zero,
  - a program counter,
  - a current privilege mode: User, Supervisor, or Machine,
  - a 4096-entry control-and-status register file,
  - Sv39 paging state: an enable flag and a cached root page-table address.

# Memory #

Addresses are routed by a [Bus] to one of five destinations: RAM, or one of
four memory-mapped peripherals (CLINT, PLIC, UART, the VIRTIO-MMIO block
device). The bus takes width-typed load/store calls directly; RV64 has no
single uniform word size to shuttle through control registers.

# Virtual memory #

When paging is enabled (SATP.MODE == 8), every instruction fetch, load, and
store address passes through the Sv39 three-level page-table walker before
reaching the bus. The walker itself always reads page-table entries through
the bus directly, bypassing translation, since PTEs live in physical RAM.

# Traps #

Exceptions (synchronous, from fetch/decode/execute/translate) and interrupts
(asynchronous, from devices) share one delivery routine that consults the
machine exception-delegation register to pick a target privilege level, then
stacks the previous interrupt-enable bit and jumps to the target's trap
vector.
*/
package vm
