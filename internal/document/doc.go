// Package document loads node trees from files.
//
// A document is YAML (or JSON, which YAML accepts) describing a root node
// and optional components, or an HTML fragment. Loading compiles the file
// once; Root builds a fresh vdom tree from it on each call.
//
// Node forms:
//
//	Hello                          text
//	{tag: p, props: {}, children: []}
//	{component: Card, props: {}, children: []}
//	{text: "literal text"}
//
// Inside a component render, single-key mappings read from the component's
// inputs:
//
//	{prop: title}                  a prop value
//	{context: theme}               a context value
//	{slot: children}               the children passed to the component
//	{expr: "props.count * 2"}      a JavaScript expression over props and context
//
// Components that declare a context mapping are stateful and pass those
// keys to their descendants.
package document
