// Package bundle partitions an annotated dependency graph into bundles.
//
// The input is a graph.Graph whose nodes already carry their entry-point
// sets (graph.MarkBundle), orders (graph.AssignOrder) and sizes. Three stages
// run in sequence, each mutating or replacing the bundle collection:
//
//  1. Extract peels off the most valuable shared subset until no node is
//     left. A subset is the group of nodes whose entry sets are identical,
//     and its value is the number of entry points times the group's size:
//     an estimate of the bytes saved by sharing the group instead of copying
//     it into every entry point's own bundle.
//
//  2. Flatten merges bundles when an entry point would need more than
//     maxDepth of them, trading duplicated bytes for fewer requests.
//
//  3. SplitByBuildType separates script and stylesheet nodes, since they are
//     written and loaded as different files.
//
// Every node ends up in exactly one bundle, and a bundle's entry set equals
// the intersection (and, before flattening, also the union) of its nodes'
// entry sets.
//
// Exact optimal partitioning is a set-cover style problem; the greedy
// extraction is deterministic instead of optimal. Ties between groups of
// equal value are broken by larger entry set, then larger size, then the
// group whose first node comes first in graph insertion order.
package bundle
