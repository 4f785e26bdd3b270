package model

import "fmt"

// ForestParams はランダムフォレストの決定木の集合です。
type ForestParams struct {
	Trees []Tree `yaml:"trees"`
}

// Tree は配列表現の二分決定木です。ノード0が根になります。
type Tree struct {
	Nodes []Node `yaml:"nodes"`
}

// Node は決定木の1ノードです。Feature が負の値のノードは葉で、Value にクラスごとの
// サンプル数（または割合）を持ちます。内部ノードは x[Feature] <= Threshold なら Left へ進みます。
type Node struct {
	Feature   int       `yaml:"feature"`
	Threshold float64   `yaml:"threshold"`
	Left      int       `yaml:"left"`
	Right     int       `yaml:"right"`
	Value     []float64 `yaml:"value,omitempty"`
}

func (n Node) leaf() bool { return n.Feature < 0 }

func (p *ForestParams) validate(nFeatures, nClasses int) error {
	if len(p.Trees) == 0 {
		return fmt.Errorf("%w: forest has no trees", ErrInvalidArtifact)
	}
	for ti, t := range p.Trees {
		if len(t.Nodes) == 0 {
			return fmt.Errorf("%w: tree %d is empty", ErrInvalidArtifact, ti)
		}
		for ni, n := range t.Nodes {
			if n.leaf() {
				if len(n.Value) != nClasses {
					return fmt.Errorf("%w: tree %d leaf %d has %d values", ErrInvalidArtifact, ti, ni, len(n.Value))
				}
				var sum float64
				for _, v := range n.Value {
					if v < 0 {
						return fmt.Errorf("%w: tree %d leaf %d has negative value", ErrInvalidArtifact, ti, ni)
					}
					sum += v
				}
				if sum == 0 {
					return fmt.Errorf("%w: tree %d leaf %d is empty", ErrInvalidArtifact, ti, ni)
				}
				continue
			}
			if n.Feature >= nFeatures {
				return fmt.Errorf("%w: tree %d node %d splits on feature %d", ErrInvalidArtifact, ti, ni, n.Feature)
			}
			// 子ノードは自身より後ろに置かれている必要があります（循環防止）。
			if n.Left <= ni || n.Right <= ni || n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes) {
				return fmt.Errorf("%w: tree %d node %d has invalid children", ErrInvalidArtifact, ti, ni)
			}
		}
	}
	return nil
}

func (p *ForestParams) predictProba(x []float64) []float64 {
	var out []float64
	for _, t := range p.Trees {
		leaf := t.leafFor(x)
		if out == nil {
			out = make([]float64, len(leaf))
		}
		var sum float64
		for _, v := range leaf {
			sum += v
		}
		for i, v := range leaf {
			out[i] += v / sum
		}
	}
	for i := range out {
		out[i] /= float64(len(p.Trees))
	}
	return out
}

func (t Tree) leafFor(x []float64) []float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.leaf() {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}
