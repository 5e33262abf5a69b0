package circularlist

func (cl *CircularList[T]) Head() *Node[T] { return cl.head }
func (cl *CircularList[T]) Tail() *Node[T] { return cl.tail }
func (n *Node[T]) Next() *Node[T]         { return n.next }
