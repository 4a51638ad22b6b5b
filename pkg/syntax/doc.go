// Package syntax parses and serializes FTL, the Fluent translation file format.
//
// Parse is resilient: an entry that fails to parse is kept as *Junk with a
// positioned *Error, and parsing resumes at the next line that can start an
// entry. The rest of the resource is unaffected.
//
//	res, errs := syntax.Parse(src)
//	for _, err := range errs {
//		log.Println(err) // syntax: 3:12: expected "}" to close the placeable
//	}
//	for _, msg := range res.Messages() {
//		fmt.Println(msg.ID)
//	}
//
// # Grammar
//
// A message is an identifier, "=" and a pattern. The pattern runs to the end
// of the line, may be wrapped in double quotes to keep leading or trailing
// whitespace, and may continue on following lines that begin with "|":
//
//	hello = Hello, { $name }!
//	padded = "  two spaces  "
//	poem =
//	    | first line
//	    | second line
//
// Placeables hold string and number literals, $variables, message references,
// message[attribute] references, FUNCTION(positional, name: value) calls and
// select expressions:
//
//	emails = { $count ->
//	    [one] One email
//	   *[other] { $count } emails
//	}
//
// Indented ".name = pattern" lines after a message are its attributes. Lines
// starting with "#" are comments; a comment directly above a message is
// attached to it. "[[ name ]]" is a section header.
//
// Serialize writes a resource back to FTL. The output parses to the same
// tree, which makes it usable as a formatter.
package syntax
