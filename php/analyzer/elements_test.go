package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/mixdoc/php/token"
)

func tokenize(t *testing.T, src string) *token.Tokens {
	t.Helper()
	toks, err := token.FromSource([]byte(src), "test.php")
	require.NoError(t, err)
	return toks
}

// describe renders members as "property $a" / "method foo" for comparison.
func describe(toks *token.Tokens, members []Member) []string {
	var out []string
	for _, m := range members {
		switch m := m.(type) {
		case Property:
			out = append(out, "property "+m.Name)
		case Method:
			out = append(out, "method "+m.Name)
		}
	}
	return out
}

func TestClassyElements(t *testing.T) {
	src := `<?php
namespace App;

use Foo\Bar;

#[Entity]
final class Demo extends Base implements \Countable
{
    use SomeTrait;
    use Other { foo as bar; }

    const A = [1, 2];
    public $a;
    protected static ?int $b = null, $c = 3;
    var $d = ['x' => [1, 2]];
    #[Inject]
    private readonly \Foo\Bar $e;

    public function __construct(private int $x = 1)
    {
        $this->a = function ($y) { return $y; };
        $anon = new class($x) {
            public $inner;
            public function innerMethod() {}
        };
    }

    abstract protected function &list(array $items = array());

    public static function count(): int
    {
        return Demo::class === static::class ? 1 : 0;
    }
}

function standalone($x) {}

interface Shape
{
    public function area(): float;
}

trait Greets
{
    private $greeting = 'hi';
    public function greet() { return "{$this->greeting}"; }
}

enum Suit: string
{
    case Hearts = 'H';
    public function label(): string { return ''; }
}
`
	toks := tokenize(t, src)
	members, err := ClassyElements(toks)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"property $a",
		"property $b",
		"property $d",
		"property $e",
		"method __construct",
		"property $inner",
		"method innerMethod",
		"method list",
		"method count",
		"method area",
		"property $greeting",
		"method greet",
		"method label",
	}, describe(toks, members))

	for i := 1; i < len(members); i++ {
		assert.Less(t, members[i-1].Anchor(), members[i].Anchor(), "members must be ordered by index")
	}
	for _, m := range members {
		switch m := m.(type) {
		case Property:
			assert.Equal(t, token.TokenVariable, toks.At(m.Index).Kind)
		case Method:
			assert.Equal(t, token.TokenFunction, toks.At(m.Index).Kind)
		}
	}
}

func TestClassyElementsDeterministic(t *testing.T) {
	src := "<?php class A { public $x; function f() {} public $y; }"
	first, err := ClassyElements(tokenize(t, src))
	require.NoError(t, err)
	second, err := ClassyElements(tokenize(t, src))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestClassyElementsNoClass(t *testing.T) {
	members, err := ClassyElements(tokenize(t, "<?php function f($a) { return $a; }"))
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestClassyElementsUnbalanced(t *testing.T) {
	_, err := ClassyElements(tokenize(t, "<?php class A { public function f() { "))
	assert.Error(t, err)
}

func TestIsConstructorOrDestructor(t *testing.T) {
	assert.True(t, Method{Name: "__construct"}.IsConstructorOrDestructor())
	assert.True(t, Method{Name: "__DESTRUCT"}.IsConstructorOrDestructor())
	assert.False(t, Method{Name: "__invoke"}.IsConstructorOrDestructor())
}
