// Package codegen translates an analyzed Cobra64 program into 6510
// machine code for the Commodore 64: a single forward pass over the
// AST that emits instruction bytes directly, recording forward
// references (branches, jumps, string/data addresses) to patch once
// every label's final address is known. The single-pass-plus-backpatch
// shape follows the teacher compiler's own code generator.
package codegen

import (
	"log"

	"github.com/mkloubert/cobra64/internal/analyzer"
	"github.com/mkloubert/cobra64/internal/ast"
	"github.com/mkloubert/cobra64/internal/cbtype"
	"github.com/mkloubert/cobra64/internal/compilerr"
	stderrors "github.com/mkloubert/cobra64/internal/errors"
	"github.com/mkloubert/cobra64/internal/include"
	"github.com/mkloubert/cobra64/internal/mos6510"
)

// CodeStart is the address of the first generated instruction, right
// after the 13-byte BASIC "10 SYS 2062" loader stub at $0801.
const CodeStart uint16 = 0x080E

// VarBase is the first address handed out to global and local
// variables, chosen clear of KERNAL/BASIC working storage.
const VarBase uint16 = 0xC000

// Generator holds all state accumulated while walking the program: the
// growing code buffer, the variable/label/string/data-block tables,
// and every unresolved reference awaiting backpatching.
type Generator struct {
	info *analyzer.Info

	code []byte // instruction bytes, indexed relative to CodeStart

	vars        map[string]varSlot
	nextVarAddr uint16

	labels          map[string]int // label name -> code offset
	pendingBranches []pendingBranch
	pendingJumps    []pendingJump

	strings           map[string]uint16 // decoded text -> offset within stringPool
	stringPool        []byte
	poolBase          uint16
	pendingStringRefs []pendingStringRef

	dataBlocks      map[string]*ast.DataBlock
	dataBlockOrder  []string
	dataBlockAddrs  map[string]uint16
	dataPool        []byte
	dataBase        uint16
	pendingDataRefs []pendingDataRef
	includeResolver *include.Resolver

	loopLabels  []loopLabelPair
	returnLabel string
	currentFunc string

	functionDecls map[string]*ast.FuncDecl

	labelCounter int
}

type varSlot struct {
	addr uint16
	typ  cbtype.Type
}

type loopLabelPair struct {
	continueLabel string
	breakLabel    string
}

// pendingBranch is a one-byte signed relative displacement awaiting
// its target label's resolution.
type pendingBranch struct {
	codeOffset int // offset of the displacement byte
	label      string
}

// pendingJump is a two-byte little-endian absolute address awaiting
// its target label's resolution (used for both JMP and JSR operands).
type pendingJump struct {
	codeOffset int
	label      string
}

// pendingStringRef is a pair of LDA #imm operand bytes awaiting the
// string pool's final base address, which is only known once code
// generation has finished and the pool's placement right after the
// code is fixed.
type pendingStringRef struct {
	loOffset, hiOffset int
	poolOffset         uint16
}

// pendingDataRef is a pair of LDA #lo / LDA #hi operand bytes
// awaiting a named data block's final absolute address, known only
// once every data block has been emitted into the data pool.
type pendingDataRef struct {
	loOffset, hiOffset int
	blockName          string
}

// Generate runs code generation over prog using the symbol
// information info produced by package analyzer, and returns the full
// PRG image bytes (2-byte load address, BASIC stub, machine code, data
// and string pools) ready to be written to disk.
func Generate(prog *ast.Program, info *analyzer.Info) ([]byte, *compilerr.CompileError) {
	g := &Generator{
		info:            info,
		vars:            map[string]varSlot{},
		nextVarAddr:     VarBase,
		labels:          map[string]int{},
		strings:         map[string]uint16{},
		functionDecls:   map[string]*ast.FuncDecl{},
		dataBlocks:      map[string]*ast.DataBlock{},
		dataBlockAddrs:  map[string]uint16{},
		includeResolver: include.NewResolver(),
	}

	for _, item := range prog.Items {
		switch d := item.(type) {
		case *ast.FuncDecl:
			g.functionDecls[d.Name] = d
		case *ast.DataBlock:
			g.dataBlocks[d.Name] = d
			g.dataBlockOrder = append(g.dataBlockOrder, d.Name)
		}
	}

	g.allocateGlobals(prog)

	if err := g.emitEntryPoint(); err != nil {
		return nil, err
	}

	for _, item := range prog.Items {
		if fn, ok := item.(*ast.FuncDecl); ok {
			if err := g.genFunction(fn); err != nil {
				return nil, err
			}
		}
	}

	g.emitRuntimeLibrary()

	if err := g.genDataBlocks(); err != nil {
		return nil, err
	}

	if err := g.resolveBranches(); err != nil {
		return nil, err
	}
	if err := g.resolveJumps(); err != nil {
		return nil, err
	}
	g.resolveDataRefs()
	g.resolveStringRefs()

	return g.assemblePRG(), nil
}

// resolveStringRefs patches every LDA #imm pair emitted by genStringLit
// once the string pool's base address is fixed: the pool is placed
// after the generated code and the data pool in the final PRG image.
func (g *Generator) resolveStringRefs() {
	g.poolBase = CodeStart + uint16(len(g.code)) + uint16(len(g.dataPool))
	for _, ref := range g.pendingStringRefs {
		addr := g.poolBase + ref.poolOffset
		g.code[ref.loOffset] = byte(addr)
		g.code[ref.hiOffset] = byte(addr >> 8)
	}
}

func (g *Generator) allocateGlobals(prog *ast.Program) {
	for _, item := range prog.Items {
		switch d := item.(type) {
		case *ast.VarDecl:
			g.allocateVar(d.Name, d.Type)
		case *ast.ConstDecl:
			g.allocateVar(d.Name, d.Type)
		}
	}
}

func (g *Generator) allocateVar(name string, typ cbtype.Type) uint16 {
	addr := g.nextVarAddr
	size := typ.SizeOf()
	if typ.IsArray() {
		count := 0
		if typ.Size != nil {
			count = int(*typ.Size)
		} else {
			log.Print(stderrors.UnknownArraySize(name))
		}
		g.nextVarAddr += uint16(size * count)
	} else {
		g.nextVarAddr += uint16(size)
	}
	g.vars[name] = varSlot{addr: addr, typ: typ}
	return addr
}

// emitEntryPoint emits the fixed prologue that runs when the BASIC
// stub's SYS call transfers control: it calls __init_globals, then the
// user's "main" function, then returns to BASIC with RTS.
func (g *Generator) emitEntryPoint() *compilerr.CompileError {
	if _, ok := g.info.Functions["main"]; !ok {
		return compilerr.New(compilerr.ErrUndefinedFunction, "program defines no \"main\" function", noSpan())
	}
	g.emitJsr("__init_globals")
	g.emitJsr("func_main")
	g.emitByte(mos6510.RTS)
	return nil
}

func (g *Generator) emitByte(b byte)    { g.code = append(g.code, b) }
func (g *Generator) emitWord(w uint16)  { g.code = append(g.code, byte(w), byte(w>>8)) }
func (g *Generator) emitOpcode(op byte) { g.emitByte(op) }

func (g *Generator) newLabel(prefix string) string {
	g.labelCounter++
	return prefix + "_" + itoa(g.labelCounter)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

func (g *Generator) defineLabel(name string) {
	g.labels[name] = len(g.code)
}

func (g *Generator) emitJmp(label string) {
	g.emitByte(mos6510.JMP_ABS)
	g.pendingJumps = append(g.pendingJumps, pendingJump{codeOffset: len(g.code), label: label})
	g.emitWord(0)
}

func (g *Generator) emitJsr(label string) {
	g.emitByte(mos6510.JSR)
	g.pendingJumps = append(g.pendingJumps, pendingJump{codeOffset: len(g.code), label: label})
	g.emitWord(0)
}

// emitJsrAddr calls a fixed absolute address (a KERNAL routine),
// bypassing label resolution entirely.
func (g *Generator) emitJsrAddr(addr uint16) {
	g.emitByte(mos6510.JSR)
	g.emitWord(addr)
}

func (g *Generator) emitBranch(opcode byte, label string) {
	g.emitByte(opcode)
	g.pendingBranches = append(g.pendingBranches, pendingBranch{codeOffset: len(g.code), label: label})
	g.emitByte(0)
}

func (g *Generator) resolveBranches() *compilerr.CompileError {
	for _, pb := range g.pendingBranches {
		target, ok := g.labels[pb.label]
		if !ok {
			log.Print(stderrors.UnresolvedLabel(pb.label))
			return compilerr.New(compilerr.ErrNotImplemented,
				"internal error: unresolved branch label \""+pb.label+"\"", noSpan())
		}
		from := pb.codeOffset + 1 // PC after the displacement byte
		disp := target - from
		if disp < -128 || disp > 127 {
			log.Print(stderrors.BranchOutOfRange(from, target))
			return compilerr.New(compilerr.ErrBranchOutOfRange,
				"branch target is out of 8-bit relative range", noSpan())
		}
		g.code[pb.codeOffset] = byte(int8(disp))
	}
	return nil
}

func (g *Generator) resolveJumps() *compilerr.CompileError {
	for _, pj := range g.pendingJumps {
		target, ok := g.labels[pj.label]
		if !ok {
			log.Print(stderrors.UnresolvedLabel(pj.label))
			return compilerr.New(compilerr.ErrNotImplemented,
				"internal error: unresolved jump target \""+pj.label+"\"", noSpan())
		}
		addr := CodeStart + uint16(target)
		g.code[pj.codeOffset] = byte(addr)
		g.code[pj.codeOffset+1] = byte(addr >> 8)
	}
	return nil
}

// assemblePRG concatenates the BASIC stub, machine code, data pool and
// string pool into a loadable PRG image (2-byte little-endian load address
// followed by the program bytes).
func (g *Generator) assemblePRG() []byte {
	var out []byte
	out = append(out, 0x01, 0x08) // load address $0801
	out = append(out, basicStub()...)
	out = append(out, g.code...)
	out = append(out, g.dataPool...)
	out = append(out, g.stringPool...)
	return out
}
