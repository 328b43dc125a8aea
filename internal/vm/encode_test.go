package vm

// encode_test.go assembles raw RV64 instruction words for the tests in
// this package. These helpers exist only to drive the decoder/executor
// from Go, not to implement an assembler.

func encodeR(opcode Opcode, rd, funct3, rs1, rs2, funct7 uint32) uint32 {
	return uint32(opcode) | rd<<7 | funct3<<12 | rs1<<15 | rs2<<20 | funct7<<25
}

func encodeI(opcode Opcode, rd, funct3, rs1 uint32, imm int32) uint32 {
	return uint32(opcode) | rd<<7 | funct3<<12 | rs1<<15 | (uint32(imm)&0xfff)<<20
}

func encodeS(opcode Opcode, funct3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm)
	lo := u & 0x1f
	hi := (u >> 5) & 0x7f

	return uint32(opcode) | lo<<7 | funct3<<12 | rs1<<15 | rs2<<20 | hi<<25
}

func encodeB(opcode Opcode, funct3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm)
	b11 := (u >> 11) & 0x1
	b4_1 := (u >> 1) & 0xf
	b10_5 := (u >> 5) & 0x3f
	b12 := (u >> 12) & 0x1

	return uint32(opcode) | b11<<7 | b4_1<<8 | funct3<<12 | rs1<<15 | rs2<<20 | b10_5<<25 | b12<<31
}

func encodeU(opcode Opcode, rd uint32, imm uint32) uint32 {
	return uint32(opcode) | rd<<7 | (imm & 0xfffff000)
}

func encodeJ(opcode Opcode, rd uint32, imm int32) uint32 {
	u := uint32(imm)
	b19_12 := (u >> 12) & 0xff
	b11 := (u >> 11) & 0x1
	b10_1 := (u >> 1) & 0x3ff
	b20 := (u >> 20) & 0x1

	return uint32(opcode) | rd<<7 | b19_12<<12 | b11<<20 | b10_1<<21 | b20<<31
}

// addi rd, rs1, imm
func iAddi(rd, rs1 uint32, imm int32) uint32 { return encodeI(OpImm, rd, 0x0, rs1, imm) }

// add rd, rs1, rs2
func iAdd(rd, rs1, rs2 uint32) uint32 { return encodeR(OpOp, rd, 0x0, rs1, rs2, 0x00) }

// sd rs2, imm(rs1)
func iSD(rs1, rs2 uint32, imm int32) uint32 { return encodeS(OpStore, 0x3, rs1, rs2, imm) }

// ld rd, imm(rs1)
func iLD(rd, rs1 uint32, imm int32) uint32 { return encodeI(OpLoad, rd, 0x3, rs1, imm) }

// auipc rd, imm
func iAUIPC(rd uint32, imm uint32) uint32 { return encodeU(OpAUIPC, rd, imm) }

// jal rd, imm
func iJAL(rd uint32, imm int32) uint32 { return encodeJ(OpJAL, rd, imm) }

// ecall
func iECALL() uint32 { return encodeI(OpSystem, 0, 0x0, 0, 0) }

// csrrw rd, csr, rs1
func iCSRRW(rd, csr, rs1 uint32) uint32 { return encodeI(OpSystem, rd, 0x1, rs1, int32(csr)) }

// mret
func iMRET() uint32 { return encodeI(OpSystem, 0, 0x0, 0, int32(sysMRET)) }

// sret
func iSRET() uint32 { return encodeI(OpSystem, 0, 0x0, 0, int32(sysSRET)) }

// mul rd, rs1, rs2
func iMul(rd, rs1, rs2 uint32) uint32 { return encodeR(OpOp, rd, 0x0, rs1, rs2, 0x01) }

// divuw rd, rs1, rs2
func iDivuw(rd, rs1, rs2 uint32) uint32 { return encodeR(OpOp32, rd, 0x5, rs1, rs2, 0x01) }

// remuw rd, rs1, rs2
func iRemuw(rd, rs1, rs2 uint32) uint32 { return encodeR(OpOp32, rd, 0x7, rs1, rs2, 0x01) }
