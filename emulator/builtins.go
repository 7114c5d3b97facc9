package emulator

import (
	"fmt"
	"strings"

	"go.starlark.net/starlark"

	"github.com/ezrec/rvmatrix/cpu"
	"github.com/ezrec/rvmatrix/matrix"
)

// builtinFunc is the signature of a Starlark builtin.
type builtinFunc func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error)

// wrap converts errors from a builtin into ErrRuntime at the calling line.
func wrap(fn builtinFunc) builtinFunc {
	return func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
		value, err = fn(thread, b, args, kwargs)
		if err != nil {
			err = &ErrRuntime{LineNo: int(thread.CallFrame(1).Pos.Line), Err: err}
		}
		return
	}
}

// unpack is starlark.UnpackArgs, reporting failures as ErrArgument.
func unpack(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple, pairs ...any) (err error) {
	err = starlark.UnpackArgs(b.Name(), args, kwargs, pairs...)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrArgument, err)
	}
	return
}

// toWord converts a Starlark int in [-2^31, 2^32) to a word.
func toWord(v starlark.Value) (word uint32, err error) {
	i, ok := v.(starlark.Int)
	if !ok {
		err = ErrWord
		return
	}

	i64, ok := i.Int64()
	if !ok || i64 > 0xffffffff || i64 < -0x80000000 {
		err = ErrWord
		return
	}

	word = uint32(i64)

	return
}

// toReg converts a register name or index.
func toReg(v starlark.Value) (reg cpu.Reg, err error) {
	if name, ok := starlark.AsString(v); ok {
		return cpu.ParseReg(name)
	}

	index, err := starlark.AsInt32(v)
	if err != nil || index < 0 || index >= cpu.REGISTER_COUNT {
		err = cpu.ErrRegisterInvalid
		return
	}

	reg = cpu.Reg(index)

	return
}

// toMatrix converts a 2x2 nested list or tuple.
func toMatrix(v starlark.Value) (m matrix.Matrix, err error) {
	rows, ok := v.(starlark.Indexable)
	if !ok || rows.Len() != matrix.MATRIX_DIM {
		err = ErrMatrix
		return
	}

	for row := range matrix.MATRIX_DIM {
		cols, ok := rows.Index(row).(starlark.Indexable)
		if !ok || cols.Len() != matrix.MATRIX_DIM {
			err = ErrMatrix
			return
		}
		for col := range matrix.MATRIX_DIM {
			var value int
			value, err = starlark.AsInt32(cols.Index(col))
			if err != nil {
				err = ErrMatrix
				return
			}
			m[row][col] = int32(value)
		}
	}

	return
}

// fromMatrix converts a matrix to a nested list.
func fromMatrix(m matrix.Matrix) starlark.Value {
	rows := make([]starlark.Value, matrix.MATRIX_DIM)
	for row := range matrix.MATRIX_DIM {
		cols := make([]starlark.Value, matrix.MATRIX_DIM)
		for col := range matrix.MATRIX_DIM {
			cols[col] = starlark.MakeInt(int(m[row][col]))
		}
		rows[row] = starlark.NewList(cols)
	}
	return starlark.NewList(rows)
}

func status(err error) starlark.Value {
	return starlark.String(cpu.StatusOf(err).String())
}

// builtins returns the script environment bound to emu and tally.
func (emu *Emulator) builtins(tally *Tally) starlark.StringDict {
	fns := map[string]builtinFunc{
		"reset": func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			err := unpack(b, args, kwargs)
			if err != nil {
				return nil, err
			}
			emu.Reset()
			return starlark.None, nil
		},
		"memory_size": func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			err := unpack(b, args, kwargs)
			if err != nil {
				return nil, err
			}
			return starlark.MakeUint(emu.Memory.Size()), nil
		},
		"snapshot": func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			err := unpack(b, args, kwargs)
			if err != nil {
				return nil, err
			}
			return starlark.Bytes(emu.Memory.Snapshot()), nil
		},
		"set_reg": func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var r, v starlark.Value
			err := unpack(b, args, kwargs, "reg", &r, "value", &v)
			if err != nil {
				return nil, err
			}
			reg, err := toReg(r)
			if err != nil {
				return nil, err
			}
			value, err := toWord(v)
			if err != nil {
				return nil, err
			}
			emu.Register[reg] = value
			return starlark.None, nil
		},
		"reg": func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var r starlark.Value
			err := unpack(b, args, kwargs, "reg", &r)
			if err != nil {
				return nil, err
			}
			reg, err := toReg(r)
			if err != nil {
				return nil, err
			}
			return starlark.MakeUint64(uint64(emu.Register[reg])), nil
		},
		"read_word": func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var a starlark.Value
			err := unpack(b, args, kwargs, "addr", &a)
			if err != nil {
				return nil, err
			}
			addr, err := toWord(a)
			if err != nil {
				return nil, err
			}
			value, err := emu.Memory.ReadWord(addr)
			return starlark.Tuple{starlark.MakeInt(int(value)), status(err)}, nil
		},
		"write_word": func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var a, v starlark.Value
			err := unpack(b, args, kwargs, "addr", &a, "value", &v)
			if err != nil {
				return nil, err
			}
			addr, err := toWord(a)
			if err != nil {
				return nil, err
			}
			value, err := toWord(v)
			if err != nil {
				return nil, err
			}
			err = emu.Memory.WriteWord(addr, int32(value))
			return status(err), nil
		},
		"read_matrix": func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var a starlark.Value
			err := unpack(b, args, kwargs, "addr", &a)
			if err != nil {
				return nil, err
			}
			addr, err := toWord(a)
			if err != nil {
				return nil, err
			}
			m, err := emu.ReadMatrix(addr)
			return starlark.Tuple{fromMatrix(m), status(err)}, nil
		},
		"write_matrix": func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var a, v starlark.Value
			err := unpack(b, args, kwargs, "addr", &a, "matrix", &v)
			if err != nil {
				return nil, err
			}
			addr, err := toWord(a)
			if err != nil {
				return nil, err
			}
			m, err := toMatrix(v)
			if err != nil {
				return nil, err
			}
			err = emu.WriteMatrix(addr, m)
			return status(err), nil
		},
		"multiply": func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var va, vb starlark.Value
			err := unpack(b, args, kwargs, "a", &va, "b", &vb)
			if err != nil {
				return nil, err
			}
			ma, err := toMatrix(va)
			if err != nil {
				return nil, err
			}
			mb, err := toMatrix(vb)
			if err != nil {
				return nil, err
			}
			return fromMatrix(matrix.Multiply(ma, mb)), nil
		},
		"matmul": func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var vd, v1, v2 starlark.Value
			err := unpack(b, args, kwargs, "rd", &vd, "rs1", &v1, "rs2", &v2)
			if err != nil {
				return nil, err
			}
			regs := make([]cpu.Reg, 3)
			for n, v := range []starlark.Value{vd, v1, v2} {
				regs[n], err = toReg(v)
				if err != nil {
					return nil, err
				}
			}
			code := cpu.MakeCodeMatmul(regs[0], regs[1], regs[2])
			return starlark.MakeUint64(uint64(code)), nil
		},
		"decode": func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var w starlark.Value
			err := unpack(b, args, kwargs, "word", &w)
			if err != nil {
				return nil, err
			}
			word, err := toWord(w)
			if err != nil {
				return nil, err
			}
			fields := cpu.Code(word).Decode()
			dict := starlark.NewDict(6)
			for _, kv := range []struct {
				key   string
				value uint8
			}{
				{"opcode", fields.Opcode},
				{"rd", uint8(fields.Rd)},
				{"func3", fields.Func3},
				{"rs1", uint8(fields.Rs1)},
				{"rs2", uint8(fields.Rs2)},
				{"func7", fields.Func7},
			} {
				err = dict.SetKey(starlark.String(kv.key), starlark.MakeInt(int(kv.value)))
				if err != nil {
					return nil, err
				}
			}
			return dict, nil
		},
		"execute": func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var w starlark.Value
			err := unpack(b, args, kwargs, "word", &w)
			if err != nil {
				return nil, err
			}
			word, err := toWord(w)
			if err != nil {
				return nil, err
			}
			st, _ := emu.Execute(cpu.Code(word))
			return starlark.String(st.String()), nil
		},
		"trace": func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			err := unpack(b, args, kwargs)
			if err != nil {
				return nil, err
			}
			tr := emu.Trace
			if tr == nil {
				return starlark.None, nil
			}
			dict := starlark.NewDict(9)
			for _, kv := range []struct {
				key   string
				value starlark.Value
			}{
				{"rd", starlark.MakeInt(int(tr.Rd))},
				{"rs1", starlark.MakeInt(int(tr.Rs1))},
				{"rs2", starlark.MakeInt(int(tr.Rs2))},
				{"addr_result", starlark.MakeUint64(uint64(tr.AddrResult))},
				{"addr_a", starlark.MakeUint64(uint64(tr.AddrA))},
				{"addr_b", starlark.MakeUint64(uint64(tr.AddrB))},
				{"a", fromMatrix(tr.A)},
				{"b", fromMatrix(tr.B)},
				{"result", fromMatrix(tr.Result)},
			} {
				err = dict.SetKey(starlark.String(kv.key), kv.value)
				if err != nil {
					return nil, err
				}
			}
			return dict, nil
		},
		"asm": func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var text string
			err := unpack(b, args, kwargs, "text", &text)
			if err != nil {
				return nil, err
			}
			prog, err := emu.Assembler().Parse(strings.NewReader(text))
			if err != nil {
				return nil, err
			}
			var words []starlark.Value
			for _, bin := range prog.Binary() {
				words = append(words, starlark.MakeUint64(uint64(bin)))
			}
			return starlark.NewList(words), nil
		},
		"strict": func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var enable bool
			err := unpack(b, args, kwargs, "enable", &enable)
			if err != nil {
				return nil, err
			}
			emu.Strict = enable
			return starlark.None, nil
		},
		"check": func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var name string
			var got, want starlark.Value
			err := unpack(b, args, kwargs, "name", &name, "got", &got, "want", &want)
			if err != nil {
				return nil, err
			}
			ok, err := starlark.Equal(got, want)
			if err != nil {
				return nil, err
			}
			detail := got.String()
			if !ok {
				detail = "got " + got.String() + ", want " + want.String()
			}
			tally.Record(name, ok, detail)
			return starlark.Bool(ok), nil
		},
	}

	dict := starlark.StringDict{}
	for name, fn := range fns {
		dict[name] = starlark.NewBuiltin(name, wrap(fn))
	}

	return dict
}
