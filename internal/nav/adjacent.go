package nav

import (
	"github.com/Jokero/webpack.js.org/internal/content"
	"github.com/Jokero/webpack.js.org/internal/projector"
)

// Adjacent finds current in list by key and returns its neighbours. Either
// is nil at a boundary and both are nil when current is not in list.
func Adjacent[T any](list []T, current T, key func(T) string) (previous, next *T) {
	want := key(current)
	for i := range list {
		if key(list[i]) != want {
			continue
		}
		if i > 0 {
			previous = &list[i-1]
		}
		if i < len(list)-1 {
			next = &list[i+1]
		}
		return previous, next
	}
	return nil, nil
}

// AdjacentPages resolves prev/next for page within the sidebar it is shown
// with, so the links stay inside the current section.
func AdjacentPages(sidebar []projector.NavNode, page *content.Node) (previous, next *projector.NavNode) {
	if page == nil {
		return nil, nil
	}
	return Adjacent(sidebar, projector.NavNode{URL: page.URL}, func(n projector.NavNode) string {
		return n.URL
	})
}
