package protoparser

import (
	"io"
	"strings"
)

// Parse parses proto2 schema source text and returns its model. The
// name is a logical file name used in diagnostics and stored on the
// returned ProtoFile; no file access happens.
func Parse(name string, source string) (ProtoFile, error) {
	pf := ProtoFile{FileName: name, Options: NewOptionMap()}
	p := &parser{s: newScanner(name, source)}
	if err := p.parseFile(&pf); err != nil {
		return ProtoFile{}, err
	}
	return pf, nil
}

// ParseReader is a convenience overload of Parse which reads the source
// text from r.
func ParseReader(name string, r io.Reader) (ProtoFile, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return ProtoFile{}, err
	}
	return Parse(name, string(raw))
}

// The parser. This struct has all the methods which actually perform the
// job of assembling the declaration tree from the scanner's primitives.
type parser struct {
	s *scanner
	// The current package name + nested type names, separated by dots
	prefix string
}

// parseFile consumes top-level declarations until end of input. Each
// iteration skips to the next declaration, collecting documentation
// comments on the way, then dispatches on the leading word.
func (p *parser) parseFile(pf *ProtoFile) error {
	for {
		if err := p.s.skipWhitespaceAndComments(); err != nil {
			return err
		}
		if p.s.eof() {
			return nil
		}
		doc := p.s.consumeDoc()
		if err := p.readDeclaration(pf, doc, parseCtx{ctxType: fileCtx}); err != nil {
			return err
		}
	}
}

func (p *parser) readDeclaration(pf *ProtoFile, doc string, ctx parseCtx) error {
	// Skip unnecessary semicolons...
	if p.s.tryRead(';') {
		return nil
	}

	label, err := p.s.readWord()
	if err != nil {
		return err
	}

	switch {
	case label == "syntax":
		if !ctx.permitsSyntax() {
			return p.s.errorf("unexpected 'syntax' in context: %v", ctx)
		}
		return p.readSyntax()
	case label == "package":
		if !ctx.permitsPackage() {
			return p.s.errorf("unexpected 'package' in context: %v", ctx)
		}
		return p.readPackage(pf)
	case label == "import":
		if !ctx.permitsImport() {
			return p.s.errorf("unexpected 'import' in context: %v", ctx)
		}
		return p.readImport(pf)
	case label == "option":
		if !ctx.permitsOption() {
			return p.s.errorf("unexpected 'option' in context: %v", ctx)
		}
		return p.readOptionStatement(pf, ctx)
	case label == "message":
		if !ctx.permitsMsg() {
			return p.s.errorf("unexpected 'message' in context: %v", ctx)
		}
		return p.readMessage(pf, doc, ctx)
	case label == "enum":
		if !ctx.permitsEnum() {
			return p.s.errorf("unexpected 'enum' in context: %v", ctx)
		}
		return p.readEnum(pf, doc, ctx)
	case label == "service":
		if !ctx.permitsService() {
			return p.s.errorf("unexpected 'service' in context: %v", ctx)
		}
		return p.readService(pf, doc)
	case label == "extend":
		if !ctx.permitsExtend() {
			return p.s.errorf("unexpected 'extend' in context: %v", ctx)
		}
		return p.readExtend(pf, doc)
	case label == "rpc":
		if !ctx.permitsRPC() {
			return p.s.errorf("unexpected 'rpc' in context: %v", ctx)
		}
		return p.readRPC(pf, ctx.obj.(*ServiceElement), doc)
	case label == "extensions":
		if !ctx.permitsExtensions() {
			return p.s.errorf("unexpected 'extensions' in context: %v", ctx)
		}
		return p.readExtensions(doc, ctx)
	case ctx.permitsField():
		return p.readField(label, doc, ctx)
	case ctx.ctxType == enumCtx:
		return p.readEnumConstant(label, doc, ctx)
	default:
		return p.s.errorf("unexpected %q in context: %v", label, ctx)
	}
}

// readBody consumes the declarations between '{' and '}' for the given
// context. Documentation left dangling before the closing brace is
// dropped so it cannot leak past the body.
func (p *parser) readBody(pf *ProtoFile, ctx parseCtx) error {
	p.s.skipWhitespace()
	if err := p.s.expect('{'); err != nil {
		return err
	}
	for {
		if err := p.s.skipWhitespaceAndComments(); err != nil {
			return err
		}
		if p.s.eof() {
			return p.s.errorf("expected '}', but reached end of input")
		}
		if p.s.tryRead('}') {
			p.s.consumeDoc()
			return nil
		}
		doc := p.s.consumeDoc()
		if err := p.readDeclaration(pf, doc, ctx); err != nil {
			return err
		}
	}
}

// readSyntax recognises and discards a syntax declaration; it is
// accepted for forward compatibility only.
func (p *parser) readSyntax() error {
	p.s.skipWhitespace()
	if err := p.s.expect('='); err != nil {
		return err
	}
	p.s.skipWhitespace()
	if _, err := p.s.readQuotedString(); err != nil {
		return err
	}
	p.s.skipWhitespace()
	return p.s.expect(';')
}

func (p *parser) readPackage(pf *ProtoFile) error {
	if pf.PackageName != "" {
		return p.s.errorf("duplicate 'package' declaration")
	}
	p.s.skipWhitespace()
	name, err := p.s.readWord()
	if err != nil {
		return err
	}
	pf.PackageName = name
	p.prefix = name + "."
	p.s.skipWhitespace()
	return p.s.expect(';')
}

func (p *parser) readImport(pf *ProtoFile) error {
	p.s.skipWhitespace()
	if p.s.peek() == '"' {
		path, err := p.s.readQuotedString()
		if err != nil {
			return err
		}
		pf.Dependencies = append(pf.Dependencies, path)
	} else {
		word, err := p.s.readWord()
		if err != nil {
			return err
		}
		if word != "public" {
			return p.s.errorf("expected 'public', but found: %v", word)
		}
		p.s.skipWhitespace()
		path, err := p.s.readQuotedString()
		if err != nil {
			return err
		}
		pf.PublicDependencies = append(pf.PublicDependencies, path)
	}
	p.s.skipWhitespace()
	return p.s.expect(';')
}

// readOptionStatement parses one 'option NAME = VALUE;' statement and
// attaches it to the current scope.
func (p *parser) readOptionStatement(pf *ProtoFile, ctx parseCtx) error {
	p.s.skipWhitespace()
	oe, err := p.readOptionElement()
	if err != nil {
		return err
	}
	p.s.skipWhitespace()
	if err := p.s.expect(';'); err != nil {
		return err
	}

	switch ctx.ctxType {
	case fileCtx:
		pf.Options.AddOption(oe)
	case msgCtx:
		me := ctx.obj.(*MessageElement)
		me.Options = append(me.Options, oe)
	case rpcCtx:
		re := ctx.obj.(*RPCElement)
		re.Options.AddOption(oe)
	}
	return nil
}

// readOptionElement parses 'NAME = VALUE'. A parenthesized name keeps
// its dots as one atomic name; dotted components after the closing
// paren become a chain of nested options around the value.
func (p *parser) readOptionElement() (OptionElement, error) {
	var oe OptionElement
	var suffix string
	if p.s.tryRead('(') {
		oe.IsParenthesized = true
		name, err := p.s.readWord()
		if err != nil {
			return oe, err
		}
		oe.Name = name
		if err := p.s.expect(')'); err != nil {
			return oe, err
		}
		if p.s.tryRead('.') {
			suffix, err = p.s.readWord()
			if err != nil {
				return oe, err
			}
		}
	} else {
		name, err := p.s.readWord()
		if err != nil {
			return oe, err
		}
		oe.Name = name
	}

	p.s.skipWhitespace()
	if err := p.s.expect('='); err != nil {
		return oe, err
	}
	p.s.skipWhitespace()
	v, err := p.readOptionValue()
	if err != nil {
		return oe, err
	}
	if suffix != "" {
		parts := strings.Split(suffix, ".")
		for i := len(parts) - 1; i >= 0; i-- {
			v = OptionValue(OptionElement{Name: parts[i], Value: v})
		}
	}
	oe.Value = v
	return oe, nil
}

// readOptionValue parses a scalar, a '[...]' list or a '{...}'
// aggregate. Identifiers, numbers and booleans are kept as their source
// text; string literals are escape-decoded.
func (p *parser) readOptionValue() (Value, error) {
	switch p.s.peek() {
	case '"':
		str, err := p.s.readQuotedString()
		if err != nil {
			return Value{}, err
		}
		return StringValue(str), nil
	case '{':
		return p.readAggregate()
	case '[':
		return p.readValueList()
	default:
		word, err := p.s.readWord()
		if err != nil {
			return Value{}, err
		}
		return StringValue(word), nil
	}
}

// readAggregate parses '{ KEY: VALUE ... }'. Commas and newlines are
// interchangeable separators and trailing separators are allowed. A
// bracketed key keeps its brackets; a repeated key folds its values
// into a list.
func (p *parser) readAggregate() (Value, error) {
	p.s.read() // consume '{'
	m := NewOptionMap()
	for {
		p.s.skipWhitespace()
		if p.s.tryRead('}') {
			return MapValue(m), nil
		}
		var key string
		if p.s.tryRead('[') {
			word, err := p.s.readWord()
			if err != nil {
				return Value{}, err
			}
			if err := p.s.expect(']'); err != nil {
				return Value{}, err
			}
			key = "[" + word + "]"
		} else {
			word, err := p.s.readWord()
			if err != nil {
				return Value{}, err
			}
			key = word
		}
		p.s.skipWhitespace()
		if err := p.s.expect(':'); err != nil {
			return Value{}, err
		}
		p.s.skipWhitespace()
		v, err := p.readOptionValue()
		if err != nil {
			return Value{}, err
		}
		m.fold(key, v)
		p.s.skipWhitespace()
		p.s.tryRead(',')
	}
}

// readValueList parses '[ VALUE, VALUE, ... ]'; a trailing comma is
// allowed.
func (p *parser) readValueList() (Value, error) {
	p.s.read() // consume '['
	var vs []Value
	for {
		p.s.skipWhitespace()
		if p.s.tryRead(']') {
			return ListValue(vs...), nil
		}
		v, err := p.readOptionValue()
		if err != nil {
			return Value{}, err
		}
		vs = append(vs, v)
		p.s.skipWhitespace()
		p.s.tryRead(',')
	}
}

// readOptionList parses the bracketed option list following a field or
// enum constant, after the '[' has been consumed. Options separate by
// commas or just whitespace; a trailing comma is allowed.
func (p *parser) readOptionList() ([]OptionElement, error) {
	var options []OptionElement
	for {
		p.s.skipWhitespace()
		if p.s.tryRead(']') {
			return options, nil
		}
		oe, err := p.readOptionElement()
		if err != nil {
			return nil, err
		}
		options = append(options, oe)
		p.s.skipWhitespace()
		p.s.tryRead(',')
	}
}

func (p *parser) readMessage(pf *ProtoFile, doc string, ctx parseCtx) error {
	p.s.skipWhitespace()
	name, err := p.s.readWord()
	if err != nil {
		return err
	}
	me := MessageElement{Name: name, QualifiedName: p.prefix + name, Documentation: doc}

	// nested declarations qualify through this message...
	previousPrefix := p.prefix
	p.prefix = p.prefix + name + "."
	defer func() {
		p.prefix = previousPrefix
	}()

	if err := p.readBody(pf, parseCtx{ctxType: msgCtx, obj: &me}); err != nil {
		return err
	}

	if ctx.ctxType == msgCtx {
		parent := ctx.obj.(*MessageElement)
		parent.NestedTypes = append(parent.NestedTypes, &me)
	} else {
		pf.Types = append(pf.Types, &me)
	}
	return nil
}

func (p *parser) readEnum(pf *ProtoFile, doc string, ctx parseCtx) error {
	p.s.skipWhitespace()
	name, err := p.s.readWord()
	if err != nil {
		return err
	}
	ee := EnumElement{Name: name, QualifiedName: p.prefix + name, Documentation: doc}

	if err := p.readBody(pf, parseCtx{ctxType: enumCtx, obj: &ee}); err != nil {
		return err
	}

	if ctx.ctxType == msgCtx {
		parent := ctx.obj.(*MessageElement)
		parent.NestedTypes = append(parent.NestedTypes, &ee)
	} else {
		pf.Types = append(pf.Types, &ee)
	}
	return nil
}

func (p *parser) readEnumConstant(name string, doc string, ctx parseCtx) error {
	ec := EnumConstantElement{Name: name, Documentation: doc}

	p.s.skipWhitespace()
	if err := p.s.expect('='); err != nil {
		return err
	}
	p.s.skipWhitespace()
	tag, err := p.s.readNumber()
	if err != nil {
		return err
	}
	if tag < 0 {
		return p.s.errorf("expected tag >= 0, but found: %v", tag)
	}
	ec.Tag = tag

	p.s.skipWhitespace()
	if p.s.tryRead('[') {
		options, err := p.readOptionList()
		if err != nil {
			return err
		}
		ec.Options = options
		p.s.skipWhitespace()
	}
	if err := p.s.expect(';'); err != nil {
		return err
	}
	ec.Documentation = mergeDoc(ec.Documentation, p.s.trailingComment())

	ee := ctx.obj.(*EnumElement)
	ee.Constants = append(ee.Constants, ec)
	return nil
}

func (p *parser) readField(label string, doc string, ctx parseCtx) error {
	if label != string(Required) && label != string(Optional) && label != string(Repeated) {
		return p.s.errorf("expected a label, but found: %v", label)
	}
	fe := FieldElement{Label: Label(label), Documentation: doc}

	p.s.skipWhitespace()
	typeName, err := p.s.readWord()
	if err != nil {
		return err
	}
	fe.Type = dataTypeFor(typeName)

	p.s.skipWhitespace()
	name, err := p.s.readWord()
	if err != nil {
		return err
	}
	fe.Name = name

	p.s.skipWhitespace()
	if err := p.s.expect('='); err != nil {
		return err
	}
	p.s.skipWhitespace()
	tag, err := p.s.readNumber()
	if err != nil {
		return err
	}
	if tag <= 0 {
		return p.s.errorf("expected tag > 0, but found: %v", tag)
	}
	fe.Tag = tag

	p.s.skipWhitespace()
	if p.s.tryRead('[') {
		options, err := p.readOptionList()
		if err != nil {
			return err
		}
		fe.Options = options
		p.s.skipWhitespace()
	}
	if err := p.s.expect(';'); err != nil {
		return err
	}
	fe.Documentation = mergeDoc(fe.Documentation, p.s.trailingComment())

	switch ctx.ctxType {
	case msgCtx:
		me := ctx.obj.(*MessageElement)
		me.Fields = append(me.Fields, fe)
	case extendCtx:
		ee := ctx.obj.(*ExtendElement)
		ee.Fields = append(ee.Fields, fe)
	}
	return nil
}

func (p *parser) readExtensions(doc string, ctx parseCtx) error {
	p.s.skipWhitespace()
	start, err := p.s.readNumber()
	if err != nil {
		return err
	}

	// a single-tag range ends where it starts...
	xe := ExtensionsElement{Documentation: doc, Start: start, End: start}

	p.s.skipWhitespace()
	if !p.s.tryRead(';') {
		word, err := p.s.readWord()
		if err != nil {
			return err
		}
		if word != "to" {
			return p.s.errorf("expected 'to', but found: %v", word)
		}
		p.s.skipWhitespace()
		endWord, err := p.s.readWord()
		if err != nil {
			return err
		}
		if endWord == "max" {
			xe.End = MaxTag
		} else {
			end, err := parseInt(endWord)
			if err != nil {
				return p.s.errorf("expected a number or 'max', but found: %v", endWord)
			}
			xe.End = end
		}
		p.s.skipWhitespace()
		if err := p.s.expect(';'); err != nil {
			return err
		}
	}

	me := ctx.obj.(*MessageElement)
	me.Extensions = append(me.Extensions, xe)
	return nil
}

func (p *parser) readService(pf *ProtoFile, doc string) error {
	p.s.skipWhitespace()
	name, err := p.s.readWord()
	if err != nil {
		return err
	}
	se := ServiceElement{Name: name, QualifiedName: p.prefix + name, Documentation: doc}

	if err := p.readBody(pf, parseCtx{ctxType: serviceCtx, obj: &se}); err != nil {
		return err
	}

	pf.Services = append(pf.Services, se)
	return nil
}

func (p *parser) readRPC(pf *ProtoFile, se *ServiceElement, doc string) error {
	p.s.skipWhitespace()
	name, err := p.s.readWord()
	if err != nil {
		return err
	}
	rpc := RPCElement{Name: name, Documentation: doc, Options: NewOptionMap()}

	rpc.RequestType, err = p.readRPCType()
	if err != nil {
		return err
	}

	p.s.skipWhitespace()
	word, err := p.s.readWord()
	if err != nil {
		return err
	}
	if word != "returns" {
		return p.s.errorf("expected 'returns', but found: %v", word)
	}

	rpc.ResponseType, err = p.readRPCType()
	if err != nil {
		return err
	}

	p.s.skipWhitespace()
	if p.s.peek() == '{' {
		// the body form carries option statements...
		if err := p.readBody(pf, parseCtx{ctxType: rpcCtx, obj: &rpc}); err != nil {
			return err
		}
	} else {
		if err := p.s.expect(';'); err != nil {
			return err
		}
		rpc.Documentation = mergeDoc(rpc.Documentation, p.s.trailingComment())
	}

	se.RPCs = append(se.RPCs, rpc)
	return nil
}

func (p *parser) readRPCType() (string, error) {
	p.s.skipWhitespace()
	if err := p.s.expect('('); err != nil {
		return "", err
	}
	p.s.skipWhitespace()
	name, err := p.s.readWord()
	if err != nil {
		return "", err
	}
	p.s.skipWhitespace()
	if err := p.s.expect(')'); err != nil {
		return "", err
	}
	return name, nil
}

func (p *parser) readExtend(pf *ProtoFile, doc string) error {
	p.s.skipWhitespace()
	name, err := p.s.readWord()
	if err != nil {
		return err
	}
	qualifiedName := name
	if !strings.Contains(name, ".") && p.prefix != "" {
		qualifiedName = p.prefix + name
	}
	ee := ExtendElement{Name: name, QualifiedName: qualifiedName, Documentation: doc}

	if err := p.readBody(pf, parseCtx{ctxType: extendCtx, obj: &ee}); err != nil {
		return err
	}

	pf.ExtendDeclarations = append(pf.ExtendDeclarations, ee)
	return nil
}

func dataTypeFor(name string) DataType {
	if sdt, err := NewScalarDataType(name); err == nil {
		return sdt
	}
	return NewNamedDataType(name)
}

// mergeDoc joins a declaration's leading documentation with a trailing
// comment captured on the terminator's line.
func mergeDoc(leading, trailing string) string {
	if trailing == "" {
		return leading
	}
	if leading == "" {
		return trailing
	}
	return leading + "\n" + trailing
}
