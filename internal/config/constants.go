package config

// DescriptorFileExtensions are all recognized descriptor file extensions
var DescriptorFileExtensions = []string{".yaml", ".yml"}

// MaxParallelChecks bounds how many checks of one document run at once.
const MaxParallelChecks = 8

// Primitive type names
const (
	StringTypeName  = "string"
	NumberTypeName  = "number"
	BooleanTypeName = "boolean"
)

// Special type names
const (
	AnyTypeName       = "any"
	UnknownTypeName   = "unknown"
	VoidTypeName      = "void"
	NeverTypeName     = "never"
	UndefinedTypeName = "undefined"
	NullTypeName      = "null"
)

// Descriptor type constructor keys
const (
	LiteralKey  = "literal"
	ArrayKey    = "array"
	TupleKey    = "tuple"
	UnionKey    = "union"
	FunctionKey = "function"
	ObjectKey   = "object"
)
