// Package ccmtfinder filters the CCMT 2024 admission dataset in-process.
//
// The dataset is parsed once at New. Every query then runs the filter
// pipeline (institute type, quick filter, programs, category, score
// ceiling) over the in-memory table.
//
// # Stateless queries
//
//	client, _ := ccmtfinder.New(ctx, ccmtfinder.WithDataFile("data/ccmt_data.psv"))
//	defer client.Close()
//
//	sel := ccmtfinder.DefaultSelection()
//	sel.InstituteType = "NIT"
//	sel.QuickFilter = "CS-programs"
//	sel.MaxScore = 600
//	res, _ := client.Find(ctx, sel)
//	fmt.Println(res.Count)
//
// # Sessions
//
// Sessions keep one selection per id. They live in process memory by
// default, or in Valkey/Redis with WithValkey or WithRedis.
//
//	s, _ := client.Sessions().Create(ctx, ccmtfinder.DefaultSelection())
//	_, res, _ := client.Sessions().Programs(ctx, s.ID)
package ccmtfinder
