// Package fairnorm normalizes bilingual Hong Kong job fair records and
// detects duplicates across sources.
//
// Quick start:
//
//	eng, err := fairnorm.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	rec := eng.Normalize(fairnorm.RawRecord{
//	    EventName: "招聘博覽會",
//	    StartRaw:  "2024年3月15日 下午2:30",
//	}, fairnorm.HintGovernment)
//	fmt.Println(rec.IdentityID)
//
// Normalize never fails: fields that cannot be parsed are left empty and
// listed in Record.Absent. An Engine is safe for concurrent use. Create once,
// reuse across requests.
package fairnorm
