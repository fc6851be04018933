package json

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pbanos/arboretum/frame"
	"github.com/pbanos/arboretum/pretree"
)

/*
Tree is the serialized form of a grown pre-tree: the name of the
response column it predicts and its nodes, indexed so that node 0 is
the root and every internal node names the indexes of its branches.
*/
type Tree struct {
	Response string `json:"response"`
	Nodes    []Node `json:"nodes"`
}

/*
Node is the serialized form of a pre-tree node. Internal nodes carry
the name of the predictor they split on, a cut value when the predictor
is numeric or the list of categories routed to the true branch when it
is categorical, and the indexes of both branches. Leaves carry their
score and the number of samples they were scored over.
*/
type Node struct {
	Predictor  string   `json:"predictor,omitempty"`
	CutValue   *float64 `json:"cutValue,omitempty"`
	Categories []string `json:"categories,omitempty"`
	TrueChild  int      `json:"trueChild,omitempty"`
	FalseChild int      `json:"falseChild,omitempty"`
	Score      *float64 `json:"score,omitempty"`
	Extent     int      `json:"extent,omitempty"`
}

/*
EncodeTree takes a grown pre-tree, the specs of its predictor columns
in predictor order and the name of its response column and returns the
Tree serializing it, or an error if a node references a predictor with
no spec.
*/
func EncodeTree(pt *pretree.PreTree, predictors []frame.ColumnSpec, response string) (*Tree, error) {
	t := &Tree{
		Response: response,
		Nodes:    make([]Node, pt.NNodes()),
	}
	for ptID := range t.Nodes {
		if pt.IsLeaf(ptID) {
			score := pt.Score(ptID)
			t.Nodes[ptID] = Node{Score: &score, Extent: pt.Extent(ptID)}
			continue
		}
		pred := pt.Pred(ptID)
		if pred < 0 || pred >= len(predictors) {
			return nil, fmt.Errorf("encoding node %d: predictor %d has no column spec", ptID, pred)
		}
		spec := predictors[pred]
		n := Node{
			Predictor:  spec.Name,
			TrueChild:  pt.TrueChild(ptID),
			FalseChild: pt.TrueChild(ptID) + 1,
		}
		if pt.IsFactor(ptID) {
			for ctg, b := range pt.Bits(ptID) {
				if !b {
					continue
				}
				if ctg >= len(spec.Categories) {
					return nil, fmt.Errorf("encoding node %d: category %d out of range for column %s", ptID, ctg, spec.Name)
				}
				n.Categories = append(n.Categories, spec.Categories[ctg])
			}
		} else {
			cutValue := pt.CutValue(ptID)
			n.CutValue = &cutValue
		}
		t.Nodes[ptID] = n
	}
	return t, nil
}

/*
WriteTree takes an io.Writer, a grown pre-tree, the specs of its
predictor columns in predictor order and the name of its response
column and serializes the tree as JSON onto the io.Writer. An error is
returned if the tree cannot be encoded or written.
*/
func WriteTree(w io.Writer, pt *pretree.PreTree, predictors []frame.ColumnSpec, response string) error {
	t, err := EncodeTree(pt, predictors, response)
	if err != nil {
		return err
	}
	err = json.NewEncoder(w).Encode(t)
	if err != nil {
		return fmt.Errorf("writing JSON tree: %v", err)
	}
	return nil
}

/*
ReadTree takes an io.Reader for a JSON stream and returns the Tree
decoded from it, or an error if the stream cannot be decoded or the
decoded nodes do not link into a tree.
*/
func ReadTree(r io.Reader) (*Tree, error) {
	t := &Tree{}
	err := json.NewDecoder(r).Decode(t)
	if err != nil {
		return nil, fmt.Errorf("reading JSON tree: %v", err)
	}
	if len(t.Nodes) == 0 {
		return nil, fmt.Errorf("reading JSON tree: no nodes")
	}
	for i, n := range t.Nodes {
		if n.Predictor == "" {
			if n.Score == nil {
				return nil, fmt.Errorf("reading JSON tree: node %d has neither predictor nor score", i)
			}
			continue
		}
		if n.TrueChild <= i || n.TrueChild >= len(t.Nodes) || n.FalseChild <= i || n.FalseChild >= len(t.Nodes) {
			return nil, fmt.Errorf("reading JSON tree: node %d references branches out of range", i)
		}
	}
	return t, nil
}
