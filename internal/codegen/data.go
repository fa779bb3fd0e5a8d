package codegen

import "github.com/mkloubert/cobra64/internal/compilerr"

// genDataBlocks emits every registered data block's bytes into the
// data pool in registration order, padding to each block's alignment
// first and recording its final absolute address. The pool is placed
// directly after the generated code, ahead of the string pool, so its
// base address is fixed as soon as code generation finishes.
func (g *Generator) genDataBlocks() *compilerr.CompileError {
	g.dataBase = CodeStart + uint16(len(g.code))

	for _, name := range g.dataBlockOrder {
		block := g.dataBlocks[name]

		if block.Align > 0 {
			cur := g.dataBase + uint16(len(g.dataPool))
			if rem := cur % block.Align; rem != 0 {
				pad := block.Align - rem
				for i := uint16(0); i < pad; i++ {
					g.dataPool = append(g.dataPool, 0)
				}
			}
		}

		g.dataBlockAddrs[name] = g.dataBase + uint16(len(g.dataPool))

		for _, entry := range block.Entries {
			if entry.Bytes != nil {
				g.dataPool = append(g.dataPool, entry.Bytes...)
				continue
			}
			bytes, err := g.includeResolver.Slice(entry.Path, entry.Offset, entry.Length, entry.Span)
			if err != nil {
				return err
			}
			g.dataPool = append(g.dataPool, bytes...)
		}
	}
	return nil
}

// resolveDataRefs patches the operands of every LDA #lo / LDA #hi pair
// emitted by genDataBlockRef once every data block's address is known.
func (g *Generator) resolveDataRefs() {
	for _, ref := range g.pendingDataRefs {
		addr := g.dataBlockAddrs[ref.blockName]
		g.code[ref.loOffset] = byte(addr)
		g.code[ref.hiOffset] = byte(addr >> 8)
	}
}
