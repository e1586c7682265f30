package protoparser_test

import (
	"fmt"

	"github.com/tallstoat/protoparser"
)

func ExampleParse() {
	source := `
package example;

// A greeting.
message Hello {
  optional string name = 1; // who to greet
}
`
	pf, err := protoparser.Parse("hello.proto", source)
	if err != nil {
		fmt.Println(err)
		return
	}

	msg := pf.Types[0].(*protoparser.MessageElement)
	fmt.Println(msg.QualifiedName)
	fmt.Println(msg.Documentation)
	fmt.Println(msg.Fields[0].Documentation)
	// Output:
	// example.Hello
	// A greeting.
	// who to greet
}
