// Package markdown renders Markdown documents through a token pipeline:
// goldmark parses the source, the tokenizer flattens the AST into leveled
// tokens, core rules such as the task-list rewriter mutate them, and the HTML
// renderer serialises the result. Service adds filesystem discovery and front
// matter on top of the parser.
package markdown
