/*
Package protoparser is a library for parsing proto2-era protocol buffer
schema text into an in-memory model.

It exposes two apis. Both return a ProtoFile datastructure and a non-nil
error if there is an issue.

API

Clients should invoke the following apis :-

	func Parse(name string, source string) (ProtoFile, error)

The Parse() function expects the caller to provide the protobuf content
as an in-memory string together with a logical file name. The file name
is not opened; it is recorded on the returned ProtoFile and used in
diagnostics.

	func ParseReader(name string, r io.Reader) (ProtoFile, error)

The ParseReader() function is a utility overload which reads the content
from the given reader and otherwise behaves exactly like Parse().

ProtoFile datastructure

This datastructure represents the parsed model of the given protobuf
source. It includes the following information :-

	type ProtoFile struct {
		FileName           string           // logical name of the file
		PackageName        string           // name of the package, if declared
		Dependencies       []string         // names of any imports
		PublicDependencies []string         // names of any public imports
		Options            *OptionMap       // any file level options
		Types              []TypeElement    // declared messages and enums, in order
		Services           []ServiceElement // any defined services
		ExtendDeclarations []ExtendElement  // any extend directives
	}

Each attribute in turn has a defined structure, which is explained in the
godoc of the corresponding elements. Returned values are immutable and
freely sharable; parses of independent files may run concurrently.

Documentation comments

Line comments and block comments opened with /** preceding a
declaration, and a trailing // comment on the same line as a field,
enum constant or rpc terminator, are attached to that declaration's
Documentation attribute, joined by newlines. Block comments opened with
a plain /* are skipped.

Design Considerations

This library consciously chooses to log no information on its own. Any
failure is communicated back to client code via the returned error. A
parse failure is a *ParseError carrying the file name and the line and
column on which the problem was encountered; ParseReader returns an error
from the reader as it is.

The parser resolves nothing: imports are recorded but not loaded, and
type references stay textual. Validation beyond syntax, code generation
and pretty-printing are left to downstream tools.
*/
package protoparser
