package analyzer

import "github.com/mkloubert/cobra64/internal/cbtype"

// builtinNames is the closed set of built-in function names. Of these,
// checkCallExpr special-cases print, println and len by name (they
// accept more than one argument type); the others are checked against
// the fixed FuncSig that registerBuiltins seeds.
var builtinNames = map[string]bool{
	"cls": true, "print": true, "println": true, "cursor": true,
	"get_key": true, "wait_for_key": true, "readln": true,
	"poke": true, "peek": true, "len": true,
}

// registerBuiltins seeds the function table with fixed signatures for
// the built-ins that take a single, fixed argument list. "print",
// "println", and "len" are checked ad hoc in checkCallExpr because their
// argument types vary by call site.
func (a *Analyzer) registerBuiltins() {
	a.info.Functions["cls"] = FuncSig{Return: cbtype.Scalar(cbtype.Void)}
	a.info.Functions["cursor"] = FuncSig{
		Params: []cbtype.Type{cbtype.Scalar(cbtype.Byte), cbtype.Scalar(cbtype.Byte)},
		Return: cbtype.Scalar(cbtype.Void),
	}
	a.info.Functions["get_key"] = FuncSig{Return: cbtype.Scalar(cbtype.Byte)}
	a.info.Functions["wait_for_key"] = FuncSig{Return: cbtype.Scalar(cbtype.Byte)}
	a.info.Functions["readln"] = FuncSig{Return: cbtype.Scalar(cbtype.String)}
	a.info.Functions["poke"] = FuncSig{
		Params: []cbtype.Type{cbtype.Scalar(cbtype.Word), cbtype.Scalar(cbtype.Byte)},
		Return: cbtype.Scalar(cbtype.Void),
	}
	a.info.Functions["peek"] = FuncSig{
		Params: []cbtype.Type{cbtype.Scalar(cbtype.Word)},
		Return: cbtype.Scalar(cbtype.Byte),
	}
}
