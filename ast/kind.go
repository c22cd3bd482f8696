package ast

// Kind identifies the variant of a node.
type Kind int

const (
	KindError Kind = iota

	// File level
	KindSourceFile
	KindShebang
	KindFileHeader
	KindBlock

	// Args block
	KindArgBlock
	KindArgDecl
	KindArgType
	KindArgComment
	KindArgEnumConstraint
	KindArgRegexConstraint
	KindArgRangeConstraint
	KindArgRequiresConstraint
	KindArgExcludesConstraint

	// Statements
	KindExprStmt
	KindAssign
	KindCompoundAssign
	KindIncrDecr
	KindShellCmd
	KindShellModifier
	KindShellHandler
	KindDelStmt
	KindBreakStmt
	KindContinueStmt
	KindYieldStmt
	KindIfStmt
	KindIfBranch
	KindForLoop
	KindWhileLoop
	KindSwitchStmt
	KindSwitchCase
	KindSwitchDefault
	KindDeferBlock
	KindErrdeferBlock

	// Rad blocks
	KindRadBlock
	KindRadFields
	KindRadSort
	KindRadSortSpec
	KindRadFieldModifier
	KindRadColor
	KindRadMap
	KindRadIf
	KindRadIfBranch

	// Expressions
	KindIdentifier
	KindInt
	KindFloat
	KindBool
	KindString
	KindStringContent
	KindEscape
	KindInterpolation
	KindFormatSpec
	KindList
	KindMap
	KindMapEntry
	KindListComprehension
	KindParenExpr
	KindUnaryOp
	KindNotOp
	KindBinaryOp
	KindComparison
	KindBoolOp
	KindTernary
	KindCall
	KindNamedArg
	KindIndex
	KindSlice
	KindFieldAccess
	KindMethodCall
	KindLambda
	KindShellText
	KindJSONPath
	KindJSONPathSegment
	KindJSONPathIndexer
)

var kindNames = [...]string{
	KindError:                 "error",
	KindSourceFile:            "source_file",
	KindShebang:               "shebang",
	KindFileHeader:            "file_header",
	KindBlock:                 "block",
	KindArgBlock:              "arg_block",
	KindArgDecl:               "arg_declaration",
	KindArgType:               "arg_type",
	KindArgComment:            "arg_comment",
	KindArgEnumConstraint:     "arg_enum_constraint",
	KindArgRegexConstraint:    "arg_regex_constraint",
	KindArgRangeConstraint:    "arg_range_constraint",
	KindArgRequiresConstraint: "arg_requires_constraint",
	KindArgExcludesConstraint: "arg_excludes_constraint",
	KindExprStmt:              "expr_stmt",
	KindAssign:                "assign",
	KindCompoundAssign:        "compound_assign",
	KindIncrDecr:              "incr_decr",
	KindShellCmd:              "shell_cmd",
	KindShellModifier:         "shell_modifier",
	KindShellHandler:          "shell_handler",
	KindDelStmt:               "del_stmt",
	KindBreakStmt:             "break_stmt",
	KindContinueStmt:          "continue_stmt",
	KindYieldStmt:             "yield_stmt",
	KindIfStmt:                "if_stmt",
	KindIfBranch:              "if_branch",
	KindForLoop:               "for_loop",
	KindWhileLoop:             "while_loop",
	KindSwitchStmt:            "switch_stmt",
	KindSwitchCase:            "switch_case",
	KindSwitchDefault:         "switch_default",
	KindDeferBlock:            "defer_block",
	KindErrdeferBlock:         "errdefer_block",
	KindRadBlock:              "rad_block",
	KindRadFields:             "rad_field_stmt",
	KindRadSort:               "rad_sort_stmt",
	KindRadSortSpec:           "rad_sort_specifier",
	KindRadFieldModifier:      "rad_field_modifier_stmt",
	KindRadColor:              "rad_field_mod_color",
	KindRadMap:                "rad_field_mod_map",
	KindRadIf:                 "rad_if_stmt",
	KindRadIfBranch:           "rad_if_branch",
	KindIdentifier:            "identifier",
	KindInt:                   "int",
	KindFloat:                 "float",
	KindBool:                  "bool",
	KindString:                "string",
	KindStringContent:         "string_content",
	KindEscape:                "escape_sequence",
	KindInterpolation:         "interpolation",
	KindFormatSpec:            "format_specifier",
	KindList:                  "list",
	KindMap:                   "map",
	KindMapEntry:              "map_entry",
	KindListComprehension:     "list_comprehension",
	KindParenExpr:             "parenthesized_expr",
	KindUnaryOp:               "unary_op",
	KindNotOp:                 "not_op",
	KindBinaryOp:              "binary_op",
	KindComparison:            "comparison_op",
	KindBoolOp:                "bool_op",
	KindTernary:               "ternary",
	KindCall:                  "call",
	KindNamedArg:              "named_arg",
	KindIndex:                 "index",
	KindSlice:                 "slice",
	KindFieldAccess:           "field_access",
	KindMethodCall:            "method_call",
	KindLambda:                "lambda",
	KindShellText:             "shell_text",
	KindJSONPath:              "json_path",
	KindJSONPathSegment:       "json_path_segment",
	KindJSONPathIndexer:       "json_path_indexer",
}

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}

	return "unknown"
}
