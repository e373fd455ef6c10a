package transforms

import (
	"context"
	"math"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/neurlang/mlsamples/data"
	"github.com/neurlang/mlsamples/hash"
	"github.com/neurlang/mlsamples/parallel"
	"github.com/neurlang/mlsamples/pipeline"
)

// TextOptions tunes FeaturizeText.
type TextOptions struct {
	// MaximumWords bounds the word n-gram dictionary, most frequent first.
	MaximumWords int
	// CharBits sets 2^CharBits buckets for hashed character trigrams.
	CharBits int
	// Salt seeds the trigram hash.
	Salt uint32
}

// DefaultTextOptions are used when FeaturizeText gets no options.
var DefaultTextOptions = TextOptions{MaximumWords: 1000, CharBits: 9, Salt: 0x9e3779b9}

// TextFeaturizer turns text into a bag of word unigrams and bigrams followed
// by hashed character trigrams, each block L2 normalised.
type TextFeaturizer struct {
	Output     string
	Input      string
	Options    TextOptions
	Dictionary []string
}

// FeaturizeText returns an estimator learning the word dictionary of input.
func FeaturizeText(output, input string, opts ...TextOptions) *TextFeaturizer {
	o := DefaultTextOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	return &TextFeaturizer{Output: output, Input: input, Options: o}
}

// Kind implements pipeline.Persistent.
func (f *TextFeaturizer) Kind() string { return "transforms.FeaturizeText" }

// Fit learns the most frequent word n-grams.
func (f *TextFeaturizer) Fit(ctx context.Context, v *data.View) (pipeline.Transformer, error) {
	col, err := v.ColumnOf(f.Input, data.Text)
	if err != nil {
		return nil, err
	}
	n := newNormalizer()
	counts := map[string]int{}
	for _, text := range col.Texts {
		for _, gram := range wordGrams(n.tokens(text)) {
			counts[gram]++
		}
	}
	dict := make([]string, 0, len(counts))
	for gram := range counts {
		dict = append(dict, gram)
	}
	sort.Slice(dict, func(i, j int) bool {
		if counts[dict[i]] != counts[dict[j]] {
			return counts[dict[i]] > counts[dict[j]]
		}
		return dict[i] < dict[j]
	})
	if f.Options.MaximumWords > 0 && len(dict) > f.Options.MaximumWords {
		dict = dict[:f.Options.MaximumWords]
	}
	sort.Strings(dict)
	return &TextFeaturizer{Output: f.Output, Input: f.Input, Options: f.Options, Dictionary: dict}, nil
}

// Dim returns the width of the feature vectors.
func (f *TextFeaturizer) Dim() int {
	return len(f.Dictionary) + 1<<f.Options.CharBits
}

// Transform adds the feature vectors.
func (f *TextFeaturizer) Transform(ctx context.Context, v *data.View) (*data.View, error) {
	col, err := v.ColumnOf(f.Input, data.Text)
	if err != nil {
		return nil, err
	}
	lookup := make(map[string]int, len(f.Dictionary))
	for i, gram := range f.Dictionary {
		lookup[gram] = i
	}
	out := make([][]float64, len(col.Texts))
	chunks := parallel.Chunks(len(out), parallel.Threads())
	parallel.ForEach(len(chunks), len(chunks), func(c int) {
		n := newNormalizer()
		for i := chunks[c][0]; i < chunks[c][1]; i++ {
			out[i] = f.featurize(n, lookup, col.Texts[i])
		}
	})
	v = v.Clone()
	return v, v.Add(data.NewVectors(f.Output, out))
}

func (f *TextFeaturizer) featurize(n *normalizer, lookup map[string]int, text string) []float64 {
	words := len(f.Dictionary)
	buckets := uint32(1) << f.Options.CharBits
	vec := make([]float64, f.Dim())
	tokens := n.tokens(text)
	for _, gram := range wordGrams(tokens) {
		if i, ok := lookup[gram]; ok {
			vec[i]++
		}
	}
	for _, tok := range tokens {
		padded := []rune("<" + tok + ">")
		for i := 0; i+3 <= len(padded); i++ {
			vec[words+int(hash.String(string(padded[i:i+3]), f.Options.Salt, buckets))]++
		}
	}
	normalize(vec[:words])
	normalize(vec[words:])
	return vec
}

func normalize(v []float64) {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	norm := 1 / math.Sqrt(sum)
	for i := range v {
		v[i] *= norm
	}
}

// wordGrams returns the unigrams and bigrams of tokens.
func wordGrams(tokens []string) []string {
	out := make([]string, 0, 2*len(tokens))
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

// normalizer lower cases text, strips diacritics and splits on punctuation
// and whitespace. It is not safe for concurrent use.
type normalizer struct {
	fold  transform.Transformer
	lower cases.Caser
}

func newNormalizer() *normalizer {
	return &normalizer{
		fold:  transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		lower: cases.Lower(language.Und),
	}
}

func (n *normalizer) tokens(text string) []string {
	folded, _, err := transform.String(n.fold, text)
	if err != nil {
		folded = text
	}
	folded = n.lower.String(folded)
	return strings.FieldsFunc(folded, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}
