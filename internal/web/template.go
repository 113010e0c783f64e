// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package web

// embeddedTemplate is the fallback upload page used when web/template.html
// is not present next to the binary.
const embeddedTemplate = `<!DOCTYPE html>
<html>
<head>
  <title>tamperscan</title>
  <style>
    body { font-family: sans-serif; max-width: 720px; margin: 2em auto; }
    .danger { color: #b02a37; }
    .success { color: #146c43; }
    ul { margin: 0.25em 0; }
  </style>
</head>
<body>
  <h1>PDF Metadata Tamper Check</h1>
  <p>Upload a PDF to check its metadata for indicators of tampering.
     Results are heuristic indicators, not forensic proof.</p>
  <form id="upload-form">
    <input type="file" name="pdf_file" accept=".pdf" required>
    <button type="submit">Analyze</button>
  </form>
  <div id="result"></div>
  <script>
    document.getElementById('upload-form').addEventListener('submit', async (e) => {
      e.preventDefault();
      const data = new FormData(e.target);
      const result = document.getElementById('result');
      result.textContent = 'Analyzing...';
      const resp = await fetch('/analyze', { method: 'POST', body: data });
      const body = await resp.json();
      if (!body.success) {
        result.innerHTML = '<p class="danger">' + body.error + '</p>';
        return;
      }
      const report = body.report;
      let html = '<h2>' + report.filename + '</h2>';
      if (report.is_suspicious) {
        html += '<p class="danger">Tampering indicators detected (' +
          report.findings.length + ')</p><ul>';
        for (const f of report.findings) {
          html += '<li>[' + f.category + '] ' + f.message + '</li>';
        }
        html += '</ul>';
      } else {
        html += '<p class="success">No tampering detected. Document appears clean.</p>';
      }
      html += '<h3>Metadata</h3><ul>';
      for (const [key, value] of Object.entries(report.metadata || {})) {
        if (value) html += '<li>' + key + ': ' + value + '</li>';
      }
      html += '</ul>';
      result.innerHTML = html;
    });
  </script>
</body>
</html>`
