// Package upload orchestrates file ingestion: staging incoming bytes,
// validating content type and size, resolving a collision-free destination
// name, materializing the file, deriving image renditions and recording
// the result.
//
// Each ingested file is tracked as an Entry moving through a fixed
// lifecycle (pending, validated, destination_resolved, materialized,
// transformed, recorded) with rejected as the terminal failure state.
// Batches run entries in parallel and are all-or-nothing by default: one
// rejection rolls back every materialized file in the batch.
//
//	cfg, _ := upload.LoadConfig()
//	p, err := upload.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	entry, err := p.Process(ctx, upload.FormSource("avatar", fileHeader),
//		upload.CropOp("thumb", imageproc.CropOptions{Width: 128, Height: 128}),
//	)
//
// Sources come from multipart forms, raw streams, local paths or remote
// URLs. Recorded entries can be pushed to an object store with Offload.
package upload
