// Package dsl 解析主题描述语言。
//
// 一个主题文件由若干主题声明组成：
//
//	theme modern extends base {
//	  band: 40mm
//	  bullet: { shape: bar; color: accent }
//	  colors {
//	    accent: #6366F1
//	  }
//	  column left {
//	    sections: [contact, summary]
//	  }
//	}
//
// 语法只负责结构，键名与取值的含义由 theme 包解释。
package dsl

import (
	"io"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	themeLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		// 颜色必须先于 # 注释匹配
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+)(?:pt|mm|cm|in|%|x)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Punct", Pattern: `[][{}:;,]`},
	})

	themeParser = participle.MustBuild[File](
		participle.Lexer(themeLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
		participle.Unquote("String"),
	)
)

// File 是主题文件的语法树根节点。
type File struct {
	Themes []*ThemeDecl `parser:"Newline* ( @@ Newline* )*"`
}

// ThemeDecl 声明一个主题，可选继承另一个主题。
type ThemeDecl struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Name    string         `parser:"'theme' @Ident"`
	Extends string         `parser:"( 'extends' @Ident )?"`
	Body    *Block         `parser:"Newline* @@"`
}

// Block 是花括号包围的语句序列，语句之间以换行或分号分隔。
// 它既是 colors/header/column 等命令块，也用作行内对象 { key: value; ... }。
type Block struct {
	Statements []*Statement `parser:"'{' ( Newline | ';' )* ( @@ ( Newline | ';' )* )* '}'"`
}

// Statement 是赋值 key: value，或带可选标签的命令块 name [label] { ... }。
type Statement struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"( ':' Newline* @@"`
	Label string         `parser:"| @Ident? Newline*"`
	Body  *Block         `parser:"  @@ )"`
}

// IsCommand 报告语句是否为命令块。
func (s *Statement) IsCommand() bool { return s.Body != nil }

// Value 是赋值右侧的取值。数值保留单位后缀原文，由调用方解析。
type Value struct {
	Pos    lexer.Position `parser:"" json:"-"`
	String *string        `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Color  *string        `parser:"| @Color"`
	Ident  *string        `parser:"| @Ident"`
	List   *List          `parser:"| @@"`
	Object *Block         `parser:"| @@"`
}

// List 是 [a, b, c] 形式的列表，允许跨行与末尾逗号。
type List struct {
	Items []*Value `parser:"'[' Newline* ( @@ Newline* ( ',' Newline* @@? Newline* )* )? ']'"`
}

// Parse 从 r 读取主题文件；filename 只用于错误位置。
func Parse(filename string, r io.Reader) (*File, error) {
	return themeParser.Parse(filename, r)
}

// ParseString 解析字符串形式的主题文件。
func ParseString(filename, input string) (*File, error) {
	return themeParser.ParseString(filename, input)
}
