package protoparser

// MaxTag is the largest tag number a field can carry; the 'max' keyword
// in an extensions range maps to it.
const MaxTag = 536870911

// Label is the proto2 cardinality marker preceding a field type.
type Label string

// The valid field labels.
const (
	Required Label = "required"
	Optional Label = "optional"
	Repeated Label = "repeated"
)

// TypeElement is the closed set of named types a proto file declares:
// a message or an enum. Concrete values are *MessageElement and
// *EnumElement; dispatch with a type switch.
type TypeElement interface {
	typeElement()
}

func (*MessageElement) typeElement() {}
func (*EnumElement) typeElement()    {}

// EnumConstantElement is a datastructure which models the entries within
// an enum construct. Enum constants can also have inline options
// specified.
type EnumConstantElement struct {
	Name          string
	Documentation string
	Options       []OptionElement
	Tag           int
}

// EnumElement is a datastructure which models the enum construct in a
// protobuf file. Enums are defined standalone or as nested entities
// within messages.
type EnumElement struct {
	Name          string
	QualifiedName string
	Documentation string
	Constants     []EnumConstantElement
}

// RPCElement is a datastructure which models the rpc construct in a
// protobuf file. RPCs are defined nested within ServiceElements; their
// request and response types are kept textual and unresolved.
type RPCElement struct {
	Name          string
	Documentation string
	RequestType   string
	ResponseType  string
	Options       *OptionMap
}

// ServiceElement is a datastructure which models the service construct
// in a protobuf file. Service construct defines the rpcs (apis) for the
// service.
type ServiceElement struct {
	Name          string
	QualifiedName string
	Documentation string
	RPCs          []RPCElement
}

// FieldElement is a datastructure which models a field of a message or
// an entry in the extend declaration in a protobuf file.
type FieldElement struct {
	Name          string
	Documentation string
	Options       []OptionElement
	Label         Label
	Type          DataType
	Tag           int
}

// OptionMap returns the field options as a merged, insertion-ordered
// mapping. Repeated names with map-shaped values collapse into a single
// mapping value.
func (fe FieldElement) OptionMap() *OptionMap {
	return buildOptionMap(fe.Options)
}

// Default returns the value of the 'default' option, if present.
func (fe FieldElement) Default() (Value, bool) {
	return fe.OptionMap().Get("default")
}

// IsDeprecated reports whether the field carries an option
// deprecated = true.
func (fe FieldElement) IsDeprecated() bool {
	v, ok := fe.OptionMap().Get("deprecated")
	return ok && v.Kind() == StringKind && v.Scalar() == "true"
}

// ExtensionsElement is a datastructure which models an extensions
// construct in a protobuf file: a range of tag numbers reserved inside
// a message for fields defined by other .proto files.
type ExtensionsElement struct {
	Documentation string
	Start         int
	End           int
}

// MessageElement is a datastructure which models the message construct
// in a protobuf file. Nested messages and enums appear in NestedTypes
// in declaration order.
type MessageElement struct {
	Name          string
	QualifiedName string
	Documentation string
	Options       []OptionElement
	Fields        []FieldElement
	NestedTypes   []TypeElement
	Extensions    []ExtensionsElement
}

// ExtendElement is a datastructure which models the extend construct in
// a protobuf file which is used to add new fields to a previously
// declared message type. Extend blocks nested inside messages are
// hoisted to the proto file with their qualified name.
type ExtendElement struct {
	Name          string
	QualifiedName string
	Documentation string
	Fields        []FieldElement
}

// ProtoFile is a datastructure which represents the parsed model of the
// given protobuf source.
//
// It includes the file name, the package name, the import dependencies,
// any public import dependencies, the file options, the declared types
// in declaration order, services and extend declarations.
//
// This is populated by the parser and returned to the client code; it
// and everything it owns are immutable thereafter and freely sharable.
type ProtoFile struct {
	FileName           string
	PackageName        string
	Dependencies       []string
	PublicDependencies []string
	Options            *OptionMap
	Types              []TypeElement
	Services           []ServiceElement
	ExtendDeclarations []ExtendElement
}
