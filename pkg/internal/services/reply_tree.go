package services

import "git.solsynth.dev/hypernet/community/pkg/internal/models"

type ReplyNode struct {
	Reply    models.Reply `json:"reply"`
	Children []*ReplyNode `json:"children"`
}

// BuildReplyTree assembles the replies of a single post into a forest.
// The input must already be ordered by creation time, siblings keep that order.
// Replies whose parent is missing from the input become roots.
// A parent listed after its child is treated as missing as well, so a malformed
// input can never form a cycle and every reply ends up in exactly one tree.
func BuildReplyTree(replies []models.Reply) []*ReplyNode {
	position := make(map[uint]int, len(replies))
	nodes := make([]*ReplyNode, len(replies))
	for idx, item := range replies {
		nodes[idx] = &ReplyNode{Reply: item, Children: []*ReplyNode{}}
		if _, ok := position[item.ID]; !ok {
			position[item.ID] = idx
		}
	}

	forest := make([]*ReplyNode, 0)
	for idx, node := range nodes {
		if parentID := node.Reply.ParentID; parentID != nil {
			if at, ok := position[*parentID]; ok && at < idx {
				nodes[at].Children = append(nodes[at].Children, node)
				continue
			}
		}
		forest = append(forest, node)
	}

	return forest
}

func CountReplyNodes(forest []*ReplyNode) int {
	count := 0
	for _, node := range forest {
		count += 1 + CountReplyNodes(node.Children)
	}
	return count
}

// CollectReplySubtree returns the id of the reply and all of its descendants, parents first.
func CollectReplySubtree(forest []*ReplyNode, id uint) []uint {
	var visit func(nodes []*ReplyNode) *ReplyNode
	visit = func(nodes []*ReplyNode) *ReplyNode {
		for _, node := range nodes {
			if node.Reply.ID == id {
				return node
			}
			if found := visit(node.Children); found != nil {
				return found
			}
		}
		return nil
	}

	root := visit(forest)
	if root == nil {
		return nil
	}

	var out []uint
	queue := []*ReplyNode{root}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		out = append(out, node.Reply.ID)
		queue = append(queue, node.Children...)
	}
	return out
}
