/*
Package bv implements a growable bit vector used to record branch senses
and categorical split memberships.
*/
package bv

const wordBits = 64

/*
Vector is an append-only bit vector. Bits are addressed by absolute
position and default to false until set. Positions already handed out
are never invalidated by growth.
*/
type Vector struct {
	words []uint64
	size  uint
}

/*
New takes a number of bits and returns a Vector with at least that
capacity, all bits unset.
*/
func New(size uint) *Vector {
	return &Vector{
		words: make([]uint64, (size+wordBits-1)/wordBits),
		size:  size,
	}
}

/*
Size returns the number of addressable bits in the vector.
*/
func (v *Vector) Size() uint {
	return v.size
}

/*
Extend takes a number of bits and grows the vector by that amount,
returning the position of the first new bit. Existing bits keep their
positions and values.
*/
func (v *Vector) Extend(n uint) uint {
	base := v.size
	v.size += n
	needed := (v.size + wordBits - 1) / wordBits
	for uint(len(v.words)) < needed {
		v.words = append(v.words, 0)
	}
	return base
}

/*
Set sets the bit at the given position.
*/
func (v *Vector) Set(pos uint) {
	if pos >= v.size {
		panic("bv: set past end of vector")
	}
	v.words[pos/wordBits] |= 1 << (pos % wordBits)
}

/*
Clear unsets the bit at the given position.
*/
func (v *Vector) Clear(pos uint) {
	if pos >= v.size {
		panic("bv: clear past end of vector")
	}
	v.words[pos/wordBits] &^= 1 << (pos % wordBits)
}

/*
Test returns whether the bit at the given position is set.
*/
func (v *Vector) Test(pos uint) bool {
	if pos >= v.size {
		panic("bv: test past end of vector")
	}
	return v.words[pos/wordBits]&(1<<(pos%wordBits)) != 0
}

/*
Words returns the backing words of the vector for serialization. The
returned slice must not be modified.
*/
func (v *Vector) Words() []uint64 {
	return v.words
}
