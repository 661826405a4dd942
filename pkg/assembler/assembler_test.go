// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package assembler_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/lassandro/sicasm/pkg/assembler"
)

const sicOpTable = `ADD	18
COMP	28
J	3C
JEQ	30
JLT	38
JSUB	48
LDA	00
LDCH	50
LDL	08
LDX	04
RD	D8
RSUB	4C
STA	0C
STCH	54
STL	14
STX	10
TD	E0
TIX	2C
WD	DC
`

type testCase struct {
	Name    string
	OpTable string
	Input   string
	Options assembler.Options
	Symbols map[string]uint32
	Code    map[int]string
	Output  []string
}

type failCase struct {
	Name    string
	OpTable string
	Input   string
	Options assembler.Options
	Error   error
}

func loadOpTable(t *testing.T, text string) *assembler.OpTable {
	if text == "" {
		text = sicOpTable
	}

	optab, err := assembler.ParseOpTable(strings.NewReader(text))

	if err != nil {
		t.Fatal(err)
	}

	return optab
}

func testAssemblerSuccess(t *testing.T, test *testCase) {
	optab := loadOpTable(t, test.OpTable)

	asm, errs := assembler.Assemble(
		strings.NewReader(test.Input), optab, test.Options,
	)

	if len(errs) > 0 {
		t.Fatal(errs[0])
	}

	for label, want := range test.Symbols {
		have, exists := asm.Symbols.Lookup(label)

		if !exists {
			t.Fatalf(
				"Missing symbol\n"+
					"want:%#04x (test.Symbols[%s])\n"+
					"have:nil",
				want,
				label,
			)
		} else if have != want {
			t.Fatalf(
				"Symbol address mismatch\n"+
					"want:%#04x (test.Symbols[%s])\n"+
					"have:%#04x",
				want,
				label,
				have,
			)
		}
	}

	if test.Symbols != nil && asm.Symbols.Len() != len(test.Symbols) {
		t.Fatalf(
			"Unexpected symbols\nwant:%d symbols\nhave:%s",
			len(test.Symbols),
			spew.Sdump(asm.Symbols.Symbols()),
		)
	}

	for index, want := range test.Code {
		if index >= len(asm.Listing) {
			t.Fatalf("Missing listing line %d\n%s", index, spew.Sdump(asm.Listing))
		}

		if have := asm.Listing[index].ObjectCode; have != want {
			t.Fatalf(
				"Object code mismatch\n"+
					"want:%s (test.Code[%d])\n"+
					"have:%s",
				want,
				index,
				have,
			)
		}
	}

	if test.Output != nil {
		have := asm.Program.Records()

		if !reflect.DeepEqual(have, test.Output) {
			t.Fatalf(
				"Object program mismatch\nwant:\n%s\nhave:\n%s",
				strings.Join(test.Output, "\n"),
				strings.Join(have, "\n"),
			)
		}
	}
}

func testAssemblerFail(t *testing.T, test *failCase) {
	optab := loadOpTable(t, test.OpTable)

	_, errs := assembler.Assemble(
		strings.NewReader(test.Input), optab, test.Options,
	)

	if test.Error == nil {
		panic("Fail case missing error value")
	}

	if len(errs) == 0 {
		t.Fatalf(
			"%s produced error of incorrect type"+
				"\nwant:%T (test.Error)\nhave:<nil>",
			t.Name(),
			test.Error,
		)
	}

	if len(errs) > 1 {
		errTypes := make([]reflect.Type, 0, len(errs))
		for _, err := range errs {
			errTypes = append(errTypes, reflect.TypeOf(err))
		}

		t.Fatalf(
			"%s produced multiple errors:\n\twant:%T (test.Error)\n\thave:%v",
			t.Name(),
			test.Error,
			errTypes,
		)
	}

	if reflect.TypeOf(errs[0]) != reflect.TypeOf(test.Error) {
		t.Fatalf(
			"%s produced error of incorrect type"+
				"\nwant:%T (test.Error)\nhave:%T",
			t.Name(),
			test.Error,
			errs[0],
		)
	}
}

func testSuccess(t *testing.T, tests []testCase) {
	t.Run("Success", func(t *testing.T) {
		for _, test := range tests {
			test := test
			t.Run(test.Name, func(t *testing.T) {
				testAssemblerSuccess(t, &test)
			})
		}
	})
}

func testFail(t *testing.T, tests []failCase) {
	t.Run("Fail", func(t *testing.T) {
		for _, test := range tests {
			test := test
			t.Run(test.Name, func(t *testing.T) {
				testAssemblerFail(t, &test)
			})
		}
	})
}

const copyProgram = "COPY\tSTART\t1000\n" +
	"FIRST\tLDA\tALPHA\n" +
	"\tSTA\tBETA\n" +
	"ALPHA\tWORD\t5\n" +
	"BETA\tRESW\t1\n" +
	"\tEND\tFIRST\n"

func TestProgram(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:    "COPY",
			OpTable: "LDA 00\nSTA 0C\n",
			Input:   copyProgram,
			Symbols: map[string]uint32{
				"FIRST": 0x1000,
				"ALPHA": 0x1006,
				"BETA":  0x1009,
			},
			Code: map[int]string{
				0: "",
				1: "001006",
				2: "0C1009",
				3: "000005",
				4: "",
				5: "",
			},
			Output: []string{
				"H^COPY^001000^C",
				"T^001000^9^0010060C1009000005",
				"E^001000",
			},
		},
		{
			Name:  "Default Name",
			Input: "\tSTART\t0\n\tRSUB\n\tEND\n",
			Output: []string{
				"H^PROG^000000^3",
				"T^000000^3^4C0000",
				"E^000000",
			},
		},
		{
			Name:  "No START",
			Input: "A\tLDA\tA\n",
			Symbols: map[string]uint32{
				"A": 0x0000,
			},
			Output: []string{
				"H^PROG^000000^3",
				"T^000000^3^000000",
				"E^000000",
			},
		},
		{
			Name:  "CRLF",
			Input: "P\tSTART\t2000\r\nX\tLDA\tX\r\n\tEND\tX\r\n",
			Output: []string{
				"H^P^002000^3",
				"T^002000^3^002000",
				"E^002000",
			},
		},
		{
			Name:  "Blank Lines",
			Input: "P\tSTART\t10\n\n   \nX\tWORD\t-1\n\n\tEND\n",
			Symbols: map[string]uint32{
				"X": 0x10,
			},
			Output: []string{
				"H^P^000010^3",
				"T^000010^3^FFFFFF",
				"E^000010",
			},
		},
		{
			Name:  "Extra Fields",
			Input: "P\tSTART\t0\nX\tLDA\tX\textra\n\tRSUB\n",
			Code: map[int]string{
				1: "4C0000",
			},
		},
		{
			Name:    "Opcode Table Before Directives",
			OpTable: "WORD 99\nLDA 00\n",
			Input:   "P\tSTART\t0\nX\tWORD\tX\n",
			Code: map[int]string{
				1: "990000",
			},
		},
		{
			Name:  "Second START",
			Input: "P\tSTART\t100\nQ\tSTART\t200\n\tLDA\tQ\n",
			Symbols: map[string]uint32{
				"Q": 0x100,
			},
			Code: map[int]string{
				1: "",
				2: "000100",
			},
		},
	})
}

func TestByte(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:  "BYTE C",
			Input: "P\tSTART\t0\nEOF\tBYTE\tC'EOF'\nNEXT\tRSUB\n",
			Symbols: map[string]uint32{
				"EOF":  0x0,
				"NEXT": 0x3,
			},
			Code: map[int]string{
				1: "454F46",
			},
		},
		{
			Name:  "BYTE c",
			Input: "P\tSTART\t0\nEOF\tBYTE\tc'ab'\nNEXT\tRSUB\n",
			Symbols: map[string]uint32{
				"EOF":  0x0,
				"NEXT": 0x2,
			},
			Code: map[int]string{
				1: "6162",
			},
		},
		{
			Name:  "BYTE X",
			Input: "P\tSTART\t0\nDEV\tBYTE\tX'1C'\nNEXT\tRSUB\n",
			Symbols: map[string]uint32{
				"DEV":  0x0,
				"NEXT": 0x1,
			},
			Code: map[int]string{
				1: "1C",
			},
		},
		{
			Name:  "BYTE x",
			Input: "P\tSTART\t0\nDEV\tBYTE\tx'f1a0'\n",
			Code: map[int]string{
				1: "F1A0",
			},
		},
		{
			Name:  "BYTE Quote",
			Input: "P\tSTART\t0\nS\tBYTE\tC'IT'S'\n",
			Code: map[int]string{
				1: "49542753",
			},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "BYTE Unterminated",
			Input: "P\tSTART\t0\n\tBYTE\tC'EOF\n",
			Error: &assembler.MalformedOperandError{},
		},
		{
			Name:  "BYTE Odd Hex",
			Input: "P\tSTART\t0\n\tBYTE\tX'1'\n",
			Error: &assembler.MalformedOperandError{},
		},
		{
			Name:  "BYTE Bad Hex",
			Input: "P\tSTART\t0\n\tBYTE\tX'ZZ'\n",
			Error: &assembler.MalformedOperandError{},
		},
		{
			Name:  "BYTE Bad Prefix",
			Input: "P\tSTART\t0\n\tBYTE\tQ'12'\n",
			Error: &assembler.MalformedOperandError{},
		},
		{
			Name:  "BYTE Empty",
			Input: "P\tSTART\t0\n\tBYTE\n",
			Error: &assembler.MalformedOperandError{},
		},
		{
			Name:  "BYTE Oversized",
			Input: "P\tSTART\t0\n\tBYTE\tC'" + strings.Repeat("A", 31) + "'\n",
			Error: &assembler.OversizedLiteralError{},
		},
	})
}

func TestWord(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:  "WORD",
			Input: "P\tSTART\t0\nW\tWORD\t4096\n",
			Code: map[int]string{
				1: "001000",
			},
		},
		{
			Name:  "WORD Negative",
			Input: "P\tSTART\t0\nW\tWORD\t-8388608\n",
			Code: map[int]string{
				1: "800000",
			},
		},
		{
			Name:  "WORD Max",
			Input: "P\tSTART\t0\nW\tWORD\t16777215\n",
			Code: map[int]string{
				1: "FFFFFF",
			},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "WORD Oversized",
			Input: "P\tSTART\t0\n\tWORD\t16777216\n",
			Error: &assembler.MalformedOperandError{},
		},
		{
			Name:  "WORD Hex",
			Input: "P\tSTART\t0\n\tWORD\t1F\n",
			Error: &assembler.MalformedOperandError{},
		},
	})
}

func TestReserve(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:  "RESW",
			Input: "P\tSTART\t1000\nBUF\tRESW\t10\nNEXT\tRSUB\n",
			Symbols: map[string]uint32{
				"BUF":  0x1000,
				"NEXT": 0x101E,
			},
			Output: []string{
				"H^P^001000^21",
				"T^00101E^3^4C0000",
				"E^001000",
			},
		},
		{
			Name:  "RESB",
			Input: "P\tSTART\t1000\nBUF\tRESB\t4096\nNEXT\tRSUB\n",
			Symbols: map[string]uint32{
				"BUF":  0x1000,
				"NEXT": 0x2000,
			},
		},
		{
			Name:  "RESB Zero",
			Input: "P\tSTART\t0\nBUF\tRESB\t0\nNEXT\tRSUB\n",
			Symbols: map[string]uint32{
				"BUF":  0x0,
				"NEXT": 0x0,
			},
		},
		{
			Name:    "Break On Reserve",
			Input:   "P\tSTART\t0\n\tWORD\t1\n\tRESW\t2\n\tWORD\t3\n",
			Options: assembler.Options{BreakOnReserve: true},
			Output: []string{
				"H^P^000000^C",
				"T^000000^3^000001",
				"T^000009^3^000003",
				"E^000000",
			},
		},
		{
			Name:  "Pack Across Reserve",
			Input: "P\tSTART\t0\n\tWORD\t1\n\tRESW\t2\n\tWORD\t3\n",
			Output: []string{
				"H^P^000000^C",
				"T^000000^6^000001000003",
				"E^000000",
			},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "RESW Literal",
			Input: "P\tSTART\t0\n\tRESW\tabc\n",
			Error: &assembler.MalformedOperandError{},
		},
		{
			Name:  "RESB Negative",
			Input: "P\tSTART\t0\n\tRESB\t-1\n",
			Error: &assembler.MalformedOperandError{},
		},
		{
			Name:  "RESB Oversized Binary",
			Input: "P\tSTART\t0\n\tRESB\t16777217\n",
			Error: &assembler.OversizedBinaryError{},
		},
	})
}

func TestStart(t *testing.T) {
	testFail(t, []failCase{
		{
			Name:  "START Not Hex",
			Input: "P\tSTART\tZZ\n\tRSUB\n",
			Error: &assembler.MalformedOperandError{},
		},
		{
			Name:  "START Empty",
			Input: "P\tSTART\n\tRSUB\n",
			Error: &assembler.MalformedOperandError{},
		},
		{
			Name:  "START Oversized Operand",
			Input: "P\tSTART\t10000\nX\tLDA\tX\n",
			Error: &assembler.OversizedLabelError{},
		},
		{
			Name:  "START Oversized Address",
			Input: "P\tSTART\t1000000\n\tEND\t\n",
			Error: &assembler.OversizedBinaryError{},
		},
		{
			Name:  "START Word Overflow",
			Input: "P\tSTART\tFFFFFFFF\n\tEND\t\n",
			Error: &assembler.OversizedBinaryError{},
		},
	})
}

func TestStartOversizedPosition(t *testing.T) {
	optab := loadOpTable(t, "")

	for _, input := range []string{
		"P\tSTART\t1000000\n\tEND\t\n",
		"P\tSTART\tFFFFFFFF\n\tRSUB\n\tEND\t\n",
	} {
		_, errs := assembler.Pass1(strings.NewReader(input), optab, assembler.Options{})

		if len(errs) != 1 {
			t.Fatalf("%q\nwant:1 error\nhave:%v", input, errs)
		}

		err, ok := errs[0].(*assembler.OversizedBinaryError)
		if !ok {
			t.Fatalf("%q\nwant:*assembler.OversizedBinaryError\nhave:%T", input, errs[0])
		}

		if want := (assembler.Cursor{Line: 1, Column: 9}); err.GetPosition() != want {
			t.Fatalf("%q\nwant:%v\nhave:%v", input, want, err.GetPosition())
		}
	}

	in, errs := assembler.Pass1(
		strings.NewReader("P\tSTART\tFFFFFF\n\tEND\t\n"), optab, assembler.Options{},
	)

	if len(errs) != 0 {
		t.Fatalf("highest start address rejected: %v", errs)
	}

	if in.Meta.Start != assembler.MaxAddress {
		t.Fatalf("want:%06X\nhave:%06X", assembler.MaxAddress, in.Meta.Start)
	}
}

func TestLabel(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "Redeclared",
			Input: "P\tSTART\t1000\n" +
				"A\tWORD\t1\n" +
				"A\tWORD\t2\n" +
				"\tLDA\tA\n",
			Symbols: map[string]uint32{
				"A": 0x1000,
			},
			Code: map[int]string{
				3: "001000",
			},
		},
		{
			Name:  "Unresolved",
			Input: "P\tSTART\t1000\n\tLDA\tNOWHERE\n",
			Code: map[int]string{
				1: "000000",
			},
		},
		{
			Name:  "Forward Reference",
			Input: "P\tSTART\t1000\n\tJ\tLAST\n\tRSUB\nLAST\tRSUB\n",
			Code: map[int]string{
				1: "3C1006",
			},
		},
		{
			Name:    "Strict RSUB",
			Input:   "P\tSTART\t1000\n\tRSUB\n",
			Options: assembler.Options{Strict: true},
			Code: map[int]string{
				1: "4C0000",
			},
		},
	})

	testFail(t, []failCase{
		{
			Name:    "Strict Redeclared",
			Input:   "P\tSTART\t0\nA\tWORD\t1\nA\tWORD\t2\n",
			Options: assembler.Options{Strict: true},
			Error:   &assembler.RedeclaredLabelError{},
		},
		{
			Name:    "Strict Unresolved",
			Input:   "P\tSTART\t0\n\tLDA\tNOWHERE\n",
			Options: assembler.Options{Strict: true},
			Error:   &assembler.UnknownLabelError{},
		},
	})
}

func TestInput(t *testing.T) {
	testFail(t, []failCase{
		{
			Name:  "Empty Source",
			Input: "",
			Error: &assembler.EmptySourceError{},
		},
		{
			Name:  "Whitespace Source",
			Input: "\n \n\t\n",
			Error: &assembler.EmptySourceError{},
		},
		{
			Name:    "Empty Opcode Table",
			OpTable: "not an opcode table\n",
			Input:   copyProgram,
			Error:   &assembler.EmptyOpTableError{},
		},
	})
}

func TestTextRecords(t *testing.T) {
	words := "P\tSTART\t0\n" + strings.Repeat("\tWORD\t1\n", 11)
	mixed := "P\tSTART\t0\n" +
		strings.Repeat("\tWORD\t2\n", 9) +
		"\tBYTE\tC'ABCD'\n" +
		"\tBYTE\tX'FF'\n"

	testSuccess(t, []testCase{
		{
			Name:  "Exactly Full",
			Input: "P\tSTART\t0\n" + strings.Repeat("\tWORD\t1\n", 10),
			Output: []string{
				"H^P^000000^1E",
				"T^000000^1E^" + strings.Repeat("000001", 10),
				"E^000000",
			},
		},
		{
			Name:  "Overflow",
			Input: words,
			Output: []string{
				"H^P^000000^21",
				"T^000000^1E^" + strings.Repeat("000001", 10),
				"T^00001E^3^000001",
				"E^000000",
			},
		},
		{
			Name:  "No Split",
			Input: mixed,
			Output: []string{
				"H^P^000000^20",
				"T^000000^1B^" + strings.Repeat("000002", 9),
				"T^00001B^5^41424344FF",
				"E^000000",
			},
		},
		{
			Name:  "Maximal Literal",
			Input: "P\tSTART\t0\n\tRSUB\n\tBYTE\tC'" + strings.Repeat("Z", 30) + "'\n",
			Output: []string{
				"H^P^000000^21",
				"T^000000^3^4C0000",
				"T^000003^1E^" + strings.Repeat("5A", 30),
				"E^000000",
			},
		},
	})
}

func TestPass2(t *testing.T) {
	optab := loadOpTable(t, "")

	_, _, errs := assembler.Pass2(nil, optab, assembler.Options{})

	if len(errs) != 1 {
		t.Fatalf("want:1 error\nhave:%d", len(errs))
	}

	if _, ok := errs[0].(*assembler.MissingPassOneError); !ok {
		t.Fatalf(
			"want:%T\nhave:%T", &assembler.MissingPassOneError{}, errs[0],
		)
	}

	intermediate, errs := assembler.Pass1(
		strings.NewReader(copyProgram), optab, assembler.Options{},
	)

	if len(errs) > 0 {
		t.Fatal(errs[0])
	}

	_, _, errs = assembler.Pass2(intermediate, nil, assembler.Options{})

	if len(errs) != 1 {
		t.Fatalf("want:1 error\nhave:%d", len(errs))
	}

	if _, ok := errs[0].(*assembler.EmptyOpTableError); !ok {
		t.Fatalf(
			"want:%T\nhave:%T", &assembler.EmptyOpTableError{}, errs[0],
		)
	}
}

func TestPass1Metadata(t *testing.T) {
	optab := loadOpTable(t, "LDA 00\nSTA 0C\n")

	intermediate, errs := assembler.Pass1(
		strings.NewReader(copyProgram), optab, assembler.Options{},
	)

	if len(errs) > 0 {
		t.Fatal(errs[0])
	}

	want := assembler.Metadata{
		Name:     "COPY",
		Start:    0x1000,
		Length:   0xC,
		End:      0x100C,
		HasStart: true,
	}

	if intermediate.Meta != want {
		t.Fatalf(
			"Metadata mismatch\nwant:%s\nhave:%s",
			spew.Sdump(want),
			spew.Sdump(intermediate.Meta),
		)
	}

	if intermediate.Records[0].Addressed {
		t.Fatalf("START record should carry no address")
	}

	var last uint32

	for _, rec := range intermediate.Records[1:] {
		if rec.Address < last {
			t.Fatalf(
				"Location counter decreased on line %d\nwant:>=%#04x\nhave:%#04x",
				rec.Line,
				last,
				rec.Address,
			)
		}

		last = rec.Address
	}
}

func TestPass1Position(t *testing.T) {
	optab := loadOpTable(t, "")

	_, errs := assembler.Pass1(
		strings.NewReader("P\tSTART\t0\nBUF\tRESW\tten\n"),
		optab,
		assembler.Options{},
	)

	if len(errs) != 1 {
		t.Fatalf("want:1 error\nhave:%d", len(errs))
	}

	tokenErr, ok := errs[0].(assembler.TokenError)

	if !ok {
		t.Fatalf("want:assembler.TokenError\nhave:%T", errs[0])
	}

	want := assembler.Cursor{Line: 2, Column: 10}

	if have := tokenErr.GetPosition(); have != want {
		t.Fatalf("Position mismatch\nwant:%+v\nhave:%+v", want, have)
	}
}

func TestPass1Errors(t *testing.T) {
	optab := loadOpTable(t, "")

	_, errs := assembler.Pass1(
		strings.NewReader(
			"P\tSTART\t0\n\tRESW\tx\n\tRESB\ty\n\tBYTE\tz\n\tWORD\t1\n",
		),
		optab,
		assembler.Options{},
	)

	if len(errs) != 3 {
		t.Fatalf("Every malformed line should be reported\nwant:3\nhave:%d", len(errs))
	}
}
