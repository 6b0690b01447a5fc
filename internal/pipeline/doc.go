// Package pipeline implements the idiom page augmentation stages.
//
// Each stage works on a dom.Document and is applied in a fixed order by the
// root idiompage package:
//   - Header rendering (rebuilds the first <header> from a template)
//   - Footer rendering (a hook that currently does nothing)
//   - Implementation population (renders implementations the server omitted)
//   - Implementation decoration (appends an edit link to every implementation)
//   - Summary decoration (appends an edit link to the idiom summary)
//
// Stages never fail on a missing DOM anchor. They record a Notice, log it,
// and leave the document as it was.
package pipeline
