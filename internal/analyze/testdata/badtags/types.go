package badtags

type Nested struct {
	ID string `datakit:"id"`
}

type Bad struct {
	Name    string  `datakit:"name,validate=titleNmae"`
	Size    int     `datakit:"size,validate=wrongShape"`
	Child   *Nested `datakit:"child,validate=check"`
	Flag    bool    `datakit:"flag,required"`
	Dup     string  `datakit:"name"`
	Renamed string  `datakit:"renamed" json:"other"`
}

func titleName(s string) (string, error) { return s, nil }

func wrongShape(a, b int) error { return nil }

func check(v any) (any, error) { return v, nil }
