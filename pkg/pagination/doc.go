// Package pagination traverses cursor-paginated collections of the seating API.
//
// Every list endpoint answers with the same page shape:
//
//	{"items": [...], "nextPageStartsAfter": "123", "previousPageEndsBefore": null}
//
// A Fetcher performs exactly one request per page. A Lister binds a Fetcher to
// one Resource and maps raw items into typed records, offering three direct
// page operations (FirstPage, PageAfter, PageBefore) and lazy sequences built
// on top of them:
//
//	lister := pagination.NewLister(fetcher, resource, pagination.JSONAdapter[Chart]())
//	params := pagination.Params{}.WithFilter("concert").WithPageSize(50)
//	for chart, err := range lister.All(ctx, params) {
//		if err != nil {
//			return err
//		}
//		fmt.Println(chart.Key)
//	}
//
// Sequences are lazy and restartable: each range statement starts a fresh
// traversal, requests the next page only when the consumer reaches the end of
// the current one, and stops issuing requests when the loop breaks. Backward
// traversal (Before) visits pages in reverse but keeps the server's canonical
// order inside each page.
//
// CollectAll drains several independent traversals through a bounded worker
// pool, for example the status changes of many events at once.
package pagination
