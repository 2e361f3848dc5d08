package printer

import "testing"

func TestWriterIndentation(t *testing.T) {
	w := NewWriter()
	w.Emit("int main(void) {")
	w.Newline()
	w.Indent()
	w.Emit("return 0;")
	w.Newline()
	w.Outdent()
	w.Emit("}")
	w.Newline()

	want := "int main(void) {\n    return 0;\n}\n"
	if got := w.String(); got != want {
		t.Errorf("unexpected output:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestWriterOutdentDoesNotGoNegative(t *testing.T) {
	w := NewWriter()
	w.Outdent()
	w.Outdent()
	w.Emit("x")
	if got := w.String(); got != "x" {
		t.Errorf("expected no indentation after outdenting past zero, got %q", got)
	}
}

func TestWriterEmitf(t *testing.T) {
	w := NewWriter()
	w.Emitf("%s_%d;", "agent", 3)
	if got, want := w.String(), "agent_3;"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriterBytes(t *testing.T) {
	w := NewWriter()
	w.Emit("hello")
	if got := string(w.Bytes()); got != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}
}
