package style

import (
	"image/color"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestSplitCompound(t *testing.T) {
	kv, err := SplitCompoundProperty("margin", "1px 2px 3px")
	assert.NoError(t, err)
	assert.Equal(t, []KeyValue{
		{"margin-top", "1px"}, {"margin-right", "2px"},
		{"margin-bottom", "3px"}, {"margin-left", "2px"},
	}, kv)
	kv, err = SplitCompoundProperty("border-radius", "4px 8px")
	assert.NoError(t, err)
	assert.Equal(t, []KeyValue{
		{"border-top-left-radius", "4px"}, {"border-top-right-radius", "8px"},
		{"border-bottom-right-radius", "4px"}, {"border-bottom-left-radius", "8px"},
	}, kv)
	kv, _ = SplitCompoundProperty("border-color", "red")
	assert.Equal(t, KeyValue{"border-left-color", "red"}, kv[3])
	_, err = SplitCompoundProperty("color", "red")
	assert.Error(t, err)
	_, err = SplitCompoundProperty("padding", "1 2 3 4 5")
	assert.Error(t, err)
}

func TestSplitCompoundWithFunctions(t *testing.T) {
	kv, err := SplitCompoundProperty("border-color", "rgb(1, 2, 3)")
	assert.NoError(t, err)
	for _, x := range kv {
		assert.Equal(t, Property("rgb(1, 2, 3)"), x.Value, x.Key)
	}
	kv, err = SplitCompoundProperty("margin", "calc(1px + 2px) auto")
	assert.NoError(t, err)
	assert.Equal(t, []KeyValue{
		{"margin-top", "calc(1px + 2px)"}, {"margin-right", "auto"},
		{"margin-bottom", "calc(1px + 2px)"}, {"margin-left", "auto"},
	}, kv)
	kv, err = SplitCompoundProperty("padding", "var(--x,  1px)  calc((1px + 2px) * 2)")
	assert.NoError(t, err)
	assert.Equal(t, Property("var(--x,  1px)"), kv[0].Value)
	assert.Equal(t, Property("calc((1px + 2px) * 2)"), kv[1].Value)
	kv, _ = SplitCompoundProperty("border-style", `"a b" solid`)
	assert.Equal(t, Property(`"a b"`), kv[2].Value)
	_, err = SplitCompoundProperty("margin", "rgb(1, 2, 3) 1 2 3 4")
	assert.Error(t, err)
}

func TestValueCase(t *testing.T) {
	g := NewPropertyGroup(PGX)
	g.Set("color", "#FF8800")
	g.Set("background-image", "url(Foo.png)")
	g.Set("font-family", `"Times New Roman", Serif`)
	p, _ := g.Get("color")
	assert.Equal(t, Property("#ff8800"), p)
	p, _ = g.Get("background-image")
	assert.Equal(t, Property("url(Foo.png)"), p)
	p, _ = g.Get("font-family")
	assert.Equal(t, Property(`"Times New Roman", Serif`), p)
}

func TestPropertyMap(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "domfront.style")
	defer teardown()
	//
	pmap := NewPropertyMap()
	pmap.Add("margin-top", "3PT")
	pmap.Add("color", "red")
	pmap.Add("funny-margin", "big")
	if pmap.Size() != 3 {
		t.Errorf("expected 3 property groups, have %d", pmap.Size())
	}
	p, ok := pmap.Property("margin-top")
	assert.True(t, ok)
	assert.Equal(t, Property("3pt"), p, "values are lower-cased")
	assert.Equal(t, []string{PGColor, PGMargins, PGX}, pmap.GroupNames())
	assert.True(t, pmap.Group(PGMargins).IsSet("margin-top"))
	assert.False(t, pmap.Group(PGMargins).IsSet("margin-left"))
	var nilmap *PropertyMap
	assert.Equal(t, 0, nilmap.Size())
	_, ok = nilmap.Property("color")
	assert.False(t, ok)
	other := NewPropertyGroup(PGMargins)
	other.Set("margin-top", "1pt")
	other.Set("margin-left", "2pt")
	pmap.AddAllFromGroup(other, false)
	p, _ = pmap.Property("margin-top")
	assert.Equal(t, Property("3pt"), p)
	p, _ = pmap.Property("margin-left")
	assert.Equal(t, Property("2pt"), p)
}

func TestColor(t *testing.T) {
	c, err := Property("Navy").Color()
	assert.NoError(t, err)
	assert.Equal(t, color.RGBA{0, 0, 0x80, 0xff}, c)
	c, err = Property("#f80").Color()
	assert.NoError(t, err)
	assert.Equal(t, "#ff8800", ColorString(c))
	_, err = Property("#12").Color()
	assert.Error(t, err)
	c, _ = Property("transparent").Color()
	assert.Equal(t, "transparent", ColorString(c))
}
