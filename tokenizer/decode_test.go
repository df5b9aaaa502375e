package tokenizer

import "testing"

func TestDecode(t *testing.T) {
	tokenizer := newTestTokenizer(t, Config{
		BeginOfText:  "<|endoftext|>",
		EndOfText:    "<|endoftext|>",
		UnknownToken: "<|endoftext|>",
	})

	cases := []struct {
		name string
		ids  []int32
		opts DecodeOptions
		want string
	}{
		{
			name: "hello world",
			ids:  []int32{12, 17},
			want: "Hello World",
		},
		{
			name: "specials skipped",
			ids:  []int32{0, 12, 17, 0},
			want: "Hello World",
		},
		{
			name: "specials rendered",
			ids:  []int32{0, 12, 17, 0},
			opts: DecodeOptions{WithSpecialTokens: true},
			want: "<|endoftext|>Hello World<|endoftext|>",
		},
		{
			name: "prefix space stripped",
			ids:  []int32{18, 17},
			opts: DecodeOptions{HasPrefixSpace: true},
			want: "Hello World",
		},
		{
			name: "prefix space kept",
			ids:  []int32{18, 17},
			want: " Hello World",
		},
		{
			name: "unassigned ids decode to nothing",
			ids:  []int32{12, 12345, 17},
			want: "Hello World",
		},
		{
			name: "non-codec runes pass through",
			ids:  []int32{27},
			want: "日",
		},
		{
			name: "emoji bytes reassemble",
			ids:  []int32{25, 22, 23, 25, 22, 24},
			want: "😀😂",
		},
		{
			name: "empty",
			ids:  nil,
			want: "",
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tokenizer.Decode(tt.ids, tt.opts)
			if err != nil {
				t.Fatal(err)
			}

			if got != tt.want {
				t.Errorf("Decode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tokenizer := newTestTokenizer(t, Config{})

	inputs := []string{
		"Hello World",
		"Hello World!",
		" Hello World",
		"😀😂",
	}

	for _, input := range inputs {
		ids, err := tokenizer.EncodeToIDs(input, EncodeOptions{SplitWords: true})
		if err != nil {
			t.Fatal(err)
		}

		got, err := tokenizer.Decode(ids, DecodeOptions{})
		if err != nil {
			t.Fatal(err)
		}

		if got != input {
			t.Errorf("round trip of %q = %q", input, got)
		}
	}
}

func TestEncodeDecodeRoundTripPrefixSpace(t *testing.T) {
	tokenizer := newTestTokenizer(t, Config{AddPrefixSpace: true})

	ids, err := tokenizer.EncodeToIDs("Hello World", tokenizer.Defaults())
	if err != nil {
		t.Fatal(err)
	}

	got, err := tokenizer.Decode(ids, tokenizer.DecodeDefaults())
	if err != nil {
		t.Fatal(err)
	}

	if got != "Hello World" {
		t.Errorf("round trip = %q, want %q", got, "Hello World")
	}
}
